package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plumehq/plume/internal/blog/routes"
	requestutil "github.com/plumehq/plume/internal/platform/request"
	"github.com/plumehq/plume/internal/platform/respond"
)

type categoryView struct {
	*Category
	Link     string `json:"link"`
	FeedLink string `json:"feed_link"`
}

func newCategoryView(category *Category) categoryView {
	return categoryView{
		Category: category,
		Link:     routes.CategoryLink(category.Slug),
		FeedLink: routes.CategoryFeedLink(category.Slug),
	}
}

func newCategoryViews(categories []*Category) []categoryView {
	views := make([]categoryView, len(categories))
	for i, category := range categories {
		views[i] = newCategoryView(category)
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
	router.Get("/", handler.listCategories)
	router.Post("/", handler.createCategory)
	router.Get("/{id}", handler.getCategory)
	router.Put("/{id}", handler.updateCategory)
	router.Delete("/{id}", handler.deleteCategory)
	router.Put("/{id}/default", handler.setDefaultCategory)
	router.Get("/by-slug/{slug}", handler.getCategoryBySlug)
}

type categoryPayload struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.All(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newCategoryViews(categories))
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var payload categoryPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Create(request.Context(), payload.Title, payload.Note)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, newCategoryView(category))
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newCategoryView(category))
}

func (handler *Handler) getCategoryBySlug(writer http.ResponseWriter, request *http.Request) {
	categorySlug := requestutil.Param(request, "slug")

	category, err := handler.service.GetBySlug(request.Context(), categorySlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newCategoryView(category))
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload categoryPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.Update(request.Context(), &Category{
		ID:    id,
		Title: payload.Title,
		Note:  payload.Note,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newCategoryView(category))
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
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

func (handler *Handler) setDefaultCategory(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetDefault(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
