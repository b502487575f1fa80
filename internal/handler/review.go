package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	mw "github.com/eseegm97/cse340-site-development/internal/middleware"
	"github.com/eseegm97/cse340-site-development/internal/queue"
	"github.com/eseegm97/cse340-site-development/internal/repository"
	"github.com/eseegm97/cse340-site-development/internal/validate"
)

// reviewGuardNotice is the single notice used when a review mutation is
// refused. Missing reviews and reviews owned by someone else get exactly
// the same response so a caller cannot probe which review ids exist.
const reviewGuardNotice = "Review not found or you don't have permission to modify it."

// ReviewHandler serves the review endpoints. Every mutation requires a
// logged-in caller and edits/deletes are limited to the review's author.
type ReviewHandler struct {
	Reviews ReviewStore
	Audit   AuditFunc
}

func NewReviewHandler(r ReviewStore, audit AuditFunc) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Audit: audit}
}

// guardOwned loads a review and confirms the caller wrote it. On any
// refusal it writes the uniform flash-and-redirect response and returns
// ok=false; the caller just returns the error.
func (h *ReviewHandler) guardOwned(c echo.Context, reviewID uint64) (repository.Review, bool, error) {
	claims := mw.ClaimsFrom(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	review, err := h.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			mw.SetFlash(c, reviewGuardNotice)
			return repository.Review{}, false, c.Redirect(http.StatusSeeOther, "/account/")
		}
		return repository.Review{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if claims == nil || review.AccountID != claims.AccountID {
		mw.SetFlash(c, reviewGuardNotice)
		return repository.Review{}, false, c.Redirect(http.StatusSeeOther, "/account/")
	}
	return review, true, nil
}

// AddReview handles POST /review/add. The author is always the session
// caller; an account id in the request body is ignored.
func (h *ReviewHandler) AddReview(c echo.Context) error {
	claims := mw.ClaimsFrom(c)
	var form validate.ReviewForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	outcome := validate.ReviewCreate(&form)
	if !outcome.OK() {
		return invalid(c, outcome, form)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Reviews.Create(ctx, form.Text, form.ParsedInvID, claims.AccountID)
	if err != nil {
		mw.SetFlash(c, "Sorry, adding the review failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, adding the review failed."})
	}

	h.audit(c, "create", id, form.ParsedInvID)
	mw.SetFlash(c, "Thank you for your review.")
	return c.JSON(http.StatusCreated, echo.Map{
		"notice":    "Thank you for your review.",
		"review_id": id,
		"redirect":  fmt.Sprintf("/inv/detail/%d", form.ParsedInvID),
	})
}

// BuildEditReview handles GET /review/edit/:reviewId, returning the
// current text so the edit form arrives pre-filled. Guarded like the
// mutations so the text of someone else's review can't be fetched here.
func (h *ReviewHandler) BuildEditReview(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("reviewId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	review, ok, resp := h.guardOwned(c, id)
	if !ok {
		return resp
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":  "Edit Review",
		"review": review,
	})
}

// UpdateReview handles POST /review/update. Only the text can change;
// vehicle and author are fixed at creation.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	var form validate.ReviewForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	outcome := validate.ReviewUpdate(&form)
	if !outcome.OK() {
		return invalid(c, outcome, form)
	}

	review, ok, resp := h.guardOwned(c, form.ParsedReviewID)
	if !ok {
		return resp
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Reviews.UpdateText(ctx, review.ID, form.Text); err != nil {
		mw.SetFlash(c, "Sorry, the review update failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, the review update failed."})
	}

	h.audit(c, "update", review.ID, review.InvID)
	mw.SetFlash(c, "The review was successfully updated.")
	return c.JSON(http.StatusOK, echo.Map{"notice": "The review was successfully updated."})
}

// BuildDeleteReview handles GET /review/delete/:reviewId, the
// confirmation view before the delete.
func (h *ReviewHandler) BuildDeleteReview(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("reviewId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	review, ok, resp := h.guardOwned(c, id)
	if !ok {
		return resp
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":  "Delete Review",
		"review": review,
	})
}

// DeleteReview handles POST /review/delete.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	raw := c.FormValue("review_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}

	review, ok, resp := h.guardOwned(c, id)
	if !ok {
		return resp
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Reviews.Delete(ctx, review.ID); err != nil {
		mw.SetFlash(c, "Sorry, the review delete failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, the review delete failed."})
	}

	h.audit(c, "delete", review.ID, review.InvID)
	mw.SetFlash(c, "The review was successfully deleted.")
	return c.JSON(http.StatusOK, echo.Map{"notice": "The review was successfully deleted."})
}

func (h *ReviewHandler) audit(c echo.Context, action string, reviewID, invID uint64) {
	if h.Audit == nil {
		return
	}
	claims := mw.ClaimsFrom(c)
	ev := queue.AuditEvent{
		Action:   action,
		Entity:   "review",
		EntityID: reviewID,
		Summary:  fmt.Sprintf("vehicle %d", invID),
	}
	if claims != nil {
		ev.ActorID = claims.AccountID
		ev.ActorRole = claims.Role
	}
	_ = h.Audit(c.Request().Context(), ev)
}
