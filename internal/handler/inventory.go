package handler

import (
	"database/sql"
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

// InventoryHandler serves the public browse endpoints and the staff-only
// catalog management endpoints.
type InventoryHandler struct {
	Classifications ClassificationStore
	Inventory       InventoryStore
	Reviews         ReviewStore
	Audit           AuditFunc
}

func NewInventoryHandler(cl ClassificationStore, inv InventoryStore, rev ReviewStore, audit AuditFunc) *InventoryHandler {
	return &InventoryHandler{Classifications: cl, Inventory: inv, Reviews: rev, Audit: audit}
}

func (h *InventoryHandler) audit(c echo.Context, action, entity string, entityID uint64, summary string) {
	if h.Audit == nil {
		return
	}
	claims := mw.ClaimsFrom(c)
	ev := queue.AuditEvent{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Summary:  summary,
	}
	if claims != nil {
		ev.ActorID = claims.AccountID
		ev.ActorRole = claims.Role
	}
	// Audit delivery is best effort; the publisher logs its own failures.
	_ = h.Audit(c.Request().Context(), ev)
}

// BuildByClassification handles GET /inv/type/:classificationId, the public
// listing of every vehicle in one classification.
func (h *InventoryHandler) BuildByClassification(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("classificationId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid classification id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	class, err := h.Classifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "classification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	vehicles, err := h.Inventory.ListByClassification(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":    class.Name + " vehicles",
		"vehicles": vehicles,
	})
}

// BuildDetail handles GET /inv/detail/:invId, the public detail view for a
// single vehicle together with its reviews, newest first.
func (h *InventoryHandler) BuildDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("invId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	vehicle, err := h.Inventory.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	reviews, err := h.Reviews.ListByInventory(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":   fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model),
		"vehicle": vehicle,
		"notice":  mw.ConsumeFlash(c),
		"reviews": reviews,
	})
}

// Management handles GET /inv/, the staff landing view with the
// classification list used to build the management select.
func (h *InventoryHandler) Management(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	classifications, err := h.Classifications.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":           "Vehicle Management",
		"notice":          mw.ConsumeFlash(c),
		"classifications": classifications,
	})
}

// GetInventoryJSON handles GET /inv/getInventory/:classification_id, the
// data feed behind the management select. An unknown or empty
// classification is reported as an error rather than an empty list so the
// client can tell "nothing there" from "bad request".
func (h *InventoryHandler) GetInventoryJSON(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("classification_id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid classification id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	vehicles, err := h.Inventory.ListByClassification(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(vehicles) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no data returned"})
	}
	return c.JSON(http.StatusOK, vehicles)
}

// BuildAddClassification delivers the add-classification view data.
func (h *InventoryHandler) BuildAddClassification(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"title":  "Add Classification",
		"notice": mw.ConsumeFlash(c),
	})
}

// AddClassification handles POST /inv/add-classification.
func (h *InventoryHandler) AddClassification(c echo.Context) error {
	var form validate.ClassificationForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	outcome := validate.Classification(&form)

	ctx, cancel := reqContext(c)
	defer cancel()

	if outcome.OK() {
		exists, err := h.Classifications.ExistsByName(ctx, form.Name)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if exists {
			outcome.Add("classification_name", "Classification already exists.")
		}
	}
	if !outcome.OK() {
		return invalid(c, outcome, form)
	}

	id, err := h.Classifications.Create(ctx, form.Name)
	if err != nil {
		if errors.Is(err, repository.ErrClassificationExists) {
			outcome.Add("classification_name", "Classification already exists.")
			return invalid(c, outcome, form)
		}
		mw.SetFlash(c, "Sorry, adding the classification failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, adding the classification failed."})
	}

	h.audit(c, "create", "classification", id, form.Name)
	mw.SetFlash(c, "The "+form.Name+" classification was successfully added.")
	return c.JSON(http.StatusCreated, echo.Map{
		"notice":            "The " + form.Name + " classification was successfully added.",
		"classification_id": id,
	})
}

// BuildAddInventory delivers the add-vehicle view data, including the
// classification list for the select control.
func (h *InventoryHandler) BuildAddInventory(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	classifications, err := h.Classifications.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":           "Add Vehicle",
		"notice":          mw.ConsumeFlash(c),
		"classifications": classifications,
	})
}

// vehicleFromForm copies the normalized form values into a repository row.
func vehicleFromForm(f *validate.InventoryForm) repository.Vehicle {
	return repository.Vehicle{
		ID:               f.ParsedInvID,
		ClassificationID: f.ParsedClassificationID,
		Make:             f.Make,
		Model:            f.Model,
		Year:             f.ParsedYear,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            f.ParsedPrice,
		Miles:            f.ParsedMiles,
		Color:            f.Color,
	}
}

// AddInventory handles POST /inv/add-inventory.
func (h *InventoryHandler) AddInventory(c echo.Context) error {
	var form validate.InventoryForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	outcome := validate.Inventory(&form, false)

	ctx, cancel := reqContext(c)
	defer cancel()

	if outcome.OK() {
		// The classification must exist before a vehicle can point at it.
		if _, err := h.Classifications.GetByID(ctx, form.ParsedClassificationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				outcome.Add("classification_id", "Please choose an existing classification.")
			} else {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
		}
	}
	if !outcome.OK() {
		return invalid(c, outcome, form)
	}

	v := vehicleFromForm(&form)
	id, err := h.Inventory.Create(ctx, &v)
	if err != nil {
		mw.SetFlash(c, "Sorry, adding the vehicle failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, adding the vehicle failed."})
	}

	h.audit(c, "create", "inventory", id, form.Make+" "+form.Model)
	notice := fmt.Sprintf("The %s %s was successfully added.", form.Make, form.Model)
	mw.SetFlash(c, notice)
	return c.JSON(http.StatusCreated, echo.Map{"notice": notice, "inv_id": id})
}

// BuildEditInventory handles GET /inv/edit/:invId and returns the current
// row so the edit form arrives pre-filled.
func (h *InventoryHandler) BuildEditInventory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("invId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	vehicle, err := h.Inventory.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	classifications, err := h.Classifications.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":           fmt.Sprintf("Edit %s %s", vehicle.Make, vehicle.Model),
		"vehicle":         vehicle,
		"classifications": classifications,
	})
}

// UpdateInventory handles POST /inv/update.
func (h *InventoryHandler) UpdateInventory(c echo.Context) error {
	var form validate.InventoryForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	outcome := validate.Inventory(&form, true)

	ctx, cancel := reqContext(c)
	defer cancel()

	if outcome.OK() {
		if _, err := h.Classifications.GetByID(ctx, form.ParsedClassificationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				outcome.Add("classification_id", "Please choose an existing classification.")
			} else {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
		}
	}
	if !outcome.OK() {
		return invalid(c, outcome, form)
	}

	v := vehicleFromForm(&form)
	if err := h.Inventory.Update(ctx, &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		mw.SetFlash(c, "Sorry, the update failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, the update failed."})
	}

	h.audit(c, "update", "inventory", v.ID, form.Make+" "+form.Model)
	notice := fmt.Sprintf("The %s %s was successfully updated.", form.Make, form.Model)
	mw.SetFlash(c, notice)
	return c.JSON(http.StatusOK, echo.Map{"notice": notice})
}

// BuildDeleteInventory handles GET /inv/delete/:invId, the confirmation
// view before a destructive delete.
func (h *InventoryHandler) BuildDeleteInventory(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("invId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	vehicle, err := h.Inventory.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":   fmt.Sprintf("Delete %s %s", vehicle.Make, vehicle.Model),
		"vehicle": vehicle,
	})
}

// DeleteInventory handles POST /inv/delete. The vehicle's reviews go with
// it in the same transaction.
func (h *InventoryHandler) DeleteInventory(c echo.Context) error {
	raw := c.FormValue("inv_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Inventory.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		mw.SetFlash(c, "Sorry, the delete failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, the delete failed."})
	}

	h.audit(c, "delete", "inventory", id, "")
	mw.SetFlash(c, "The vehicle was successfully deleted.")
	return c.JSON(http.StatusOK, echo.Map{"notice": "The vehicle was successfully deleted."})
}

// TriggerError handles GET /inv/error-test: it fails on purpose so the
// top-level error handler can be exercised end to end.
func (h *InventoryHandler) TriggerError(c echo.Context) error {
	return errors.New("intentional server error")
}
