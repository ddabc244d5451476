package page

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plumehq/plume/internal/blog/post"
	requestutil "github.com/plumehq/plume/internal/platform/request"
	"github.com/plumehq/plume/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listPages)
	router.Post("/", handler.createPage)
	router.Get("/{id}", handler.getPage)
	router.Put("/{id}", handler.updatePage)
	router.Delete("/{id}", handler.deletePage)
	router.Get("/by-slug/{slug}", handler.getPageBySlug)
	router.Post("/nav/preview", handler.previewNav)
}

type pagePayload struct {
	Title    string      `json:"title"`
	Body     string      `json:"body"`
	Excerpt  string      `json:"excerpt"`
	Status   post.Status `json:"status"`
	ParentID int         `json:"parent_id"`
}

func (p pagePayload) toPage(id int) *post.Post {
	return &post.Post{
		ID:       id,
		Type:     post.TypePage,
		Title:    p.Title,
		Body:     p.Body,
		Excerpt:  p.Excerpt,
		Status:   p.Status,
		ParentID: p.ParentID,
	}
}

func (handler *Handler) listPages(writer http.ResponseWriter, request *http.Request) {
	parentID := requestutil.QueryInt(request, "parent", 0)

	pages, err := handler.service.List(request.Context(), parentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pages)
}

func (handler *Handler) getPage(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) getPageBySlug(writer http.ResponseWriter, request *http.Request) {
	pageSlug := requestutil.Param(request, "slug")

	page, err := handler.service.GetBySlug(request.Context(), pageSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) createPage(writer http.ResponseWriter, request *http.Request) {
	var payload pagePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Create(request.Context(), payload.toPage(0))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, page)
}

func (handler *Handler) updatePage(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload pagePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Update(request.Context(), payload.toPage(id))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) deletePage(writer http.ResponseWriter, request *http.Request) {
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

type navPayload struct {
	Markdown   string `json:"markdown"`
	ParentSlug string `json:"parent_slug"`
}

// previewNav renders navigation markdown to HTML for the compose screen.
func (handler *Handler) previewNav(writer http.ResponseWriter, request *http.Request) {
	var payload navPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"html": NavToHTML(payload.Markdown, payload.ParentSlug),
	})
}
