package post

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plumehq/plume/internal/blog/routes"
	requestutil "github.com/plumehq/plume/internal/platform/request"
	"github.com/plumehq/plume/internal/platform/respond"
	"github.com/plumehq/plume/pkg/pagination"
)

// postView decorates a post with its public and admin links.
type postView struct {
	*Post
	Link      string `json:"link"`
	Permalink string `json:"permalink"`
	EditLink  string `json:"edit_link"`
}

func newPostView(p *Post) postView {
	link := routes.PostLink(p.CreatedOn, p.Slug)
	if p.Status == StatusDraft {
		link = routes.PostPreviewLink(p.CreatedOn, p.Slug)
	}
	return postView{
		Post:      p,
		Link:      link,
		Permalink: routes.PostPermalink(p.ID),
		EditLink:  routes.PostEditLink(p.ID),
	}
}

func newPostViews(posts []*Post) []postView {
	views := make([]postView, len(posts))
	for i, p := range posts {
		views[i] = newPostView(p)
	}
	return views
}

// archiveView carries a month of posts together with the archive page link.
type archiveView struct {
	Link  string     `json:"link"`
	Posts []postView `json:"posts"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listPosts)
	router.Post("/", handler.createPost)
	router.Get("/index", handler.indexPosts)
	router.Get("/archive/{year}/{month}", handler.archivePosts)
	router.Get("/{id}", handler.getPost)
	router.Put("/{id}", handler.updatePost)
	router.Delete("/{id}", handler.deletePost)
	router.Get("/{year}/{month}/{day}/{slug}", handler.getPostBySlug)
}

type postPayload struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Excerpt    string    `json:"excerpt"`
	Status     Status    `json:"status"`
	CategoryID int       `json:"category_id"`
	TagIDs     []int     `json:"tag_ids"`
	CreatedOn  time.Time `json:"created_on"`
}

func (p postPayload) toPost(id int) *Post {
	return &Post{
		ID:         id,
		Type:       TypePost,
		Title:      p.Title,
		Body:       p.Body,
		Excerpt:    p.Excerpt,
		Status:     p.Status,
		CategoryID: p.CategoryID,
		TagIDs:     p.TagIDs,
		CreatedOn:  p.CreatedOn,
	}
}

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	query := ListQuery{
		Type:       TypePost,
		Status:     Status(request.URL.Query().Get("status")),
		CategoryID: requestutil.QueryInt(request, "category", 0),
		TagID:      requestutil.QueryInt(request, "tag", 0),
		Page:       params,
	}

	posts, total, err := handler.service.List(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, newPostViews(posts), pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) indexPosts(writer http.ResponseWriter, request *http.Request) {
	posts, err := handler.service.Index(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newPostViews(posts))
}

func (handler *Handler) archivePosts(writer http.ResponseWriter, request *http.Request) {
	year, err := requestutil.IntParam(request, "year")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	month, err := requestutil.IntParam(request, "month")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, err := handler.service.Archive(request.Context(), year, month)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, archiveView{
		Link:  routes.ArchiveLink(year, month),
		Posts: newPostViews(posts),
	})
}

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newPostView(post))
}

func (handler *Handler) getPostBySlug(writer http.ResponseWriter, request *http.Request) {
	year, err := requestutil.IntParam(request, "year")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	month, err := requestutil.IntParam(request, "month")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	day, err := requestutil.IntParam(request, "day")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	slug := requestutil.Param(request, "slug")

	post, err := handler.service.GetBySlug(request.Context(), slug, year, month, day)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newPostView(post))
}

func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	var payload postPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Create(request.Context(), payload.toPost(0))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, newPostView(post))
}

func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload postPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Update(request.Context(), payload.toPost(id))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newPostView(post))
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
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
