package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/postboard/content-api/internal/api/metrics"
	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /posts.
//
// @Summary      Create a post owned by the caller
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	identity, err := actor(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), identity, req.Title, req.Content)
	if err != nil {
		return err
	}

	metrics.PostMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// List handles GET /posts.
//
// @Summary      List every post, newest first
// @Tags         posts
// @Produce      json
// @Success      200  {array}   postResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Featured handles GET /posts/one.
//
// @Summary      Newest post, or a placeholder when there are none
// @Tags         posts
// @Produce      json
// @Success      200  {object}  postResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts/one [get]
func (h *PostHandler) Featured(c echo.Context) error {
	post, err := h.service.Featured(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Get handles GET /posts/:id.
//
// @Summary      Get a post by id
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	post, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Update handles PUT /posts/:id.
//
// @Summary      Update a post owned by the caller
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Post id"
// @Param        body  body      postRequest  true  "New title and content"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	identity, err := actor(c)
	if err != nil {
		return err
	}
	id, err := postID(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Update(c.Request().Context(), identity, id, req.Title, req.Content)
	if err != nil {
		return err
	}

	metrics.PostMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /posts/:id.
//
// @Summary      Delete a post owned by the caller
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	identity, err := actor(c)
	if err != nil {
		return err
	}
	id, err := postID(c)
	if err != nil {
		return err
	}

	ack, err := h.service.Delete(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}

	metrics.PostMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, toMessageResponse(ack))
}

func postID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.Validation("post id must be an integer")
	}
	return id, nil
}
