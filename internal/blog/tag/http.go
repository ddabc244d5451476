package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plumehq/plume/internal/blog/routes"
	requestutil "github.com/plumehq/plume/internal/platform/request"
	"github.com/plumehq/plume/internal/platform/respond"
)

type tagView struct {
	*Tag
	Link string `json:"link"`
}

func newTagView(tag *Tag) tagView {
	return tagView{Tag: tag, Link: routes.TagLink(tag.Slug)}
}

func newTagViews(tags []*Tag) []tagView {
	views := make([]tagView, len(tags))
	for i, tag := range tags {
		views[i] = newTagView(tag)
	}
	return views
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTags)
	router.Post("/", handler.createTag)
	router.Get("/{id}", handler.getTag)
	router.Put("/{id}", handler.updateTag)
	router.Delete("/{id}", handler.deleteTag)
	router.Get("/by-slug/{slug}", handler.getTagBySlug)
}

type tagPayload struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newTagViews(tags))
}

func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var payload tagPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Create(request.Context(), &Tag{
		Title: payload.Title,
		Note:  payload.Note,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, newTagView(tag))
}

func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newTagView(tag))
}

func (handler *Handler) getTagBySlug(writer http.ResponseWriter, request *http.Request) {
	tagSlug := requestutil.Param(request, "slug")

	tag, err := handler.service.GetBySlug(request.Context(), tagSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newTagView(tag))
}

func (handler *Handler) updateTag(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload tagPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.Update(request.Context(), &Tag{
		ID:    id,
		Title: payload.Title,
		Note:  payload.Note,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newTagView(tag))
}

func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
