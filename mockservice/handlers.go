package mockservice

import (
	"io"
	"net/http"

	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const defaultListLimit = 100

func (s *Service) minTitleLength() int {
	if s.opts.Faults.AcceptEmptyTitle {
		return 0
	}
	return 1
}

// readItemFields reads and validates the request body, writing an error response and returning
// false if it is not acceptable.
func (s *Service) readItemFields(w http.ResponseWriter, r *http.Request, requireTitle bool) (itemFields, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "There was an error reading the body")
		return itemFields{}, false
	}
	fields, problems := decodeItemFields(body, requireTitle, s.minTitleLength())
	if fields.hasNull && s.opts.Faults.ServerErrorOnNullFields {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return itemFields{}, false
	}
	if len(problems) != 0 {
		writeValidationErrors(w, problems)
		return itemFields{}, false
	}
	return fields, true
}

// itemID parses the {id} path parameter, writing an error response and returning false if it
// is not a UUID.
func (s *Service) itemID(w http.ResponseWriter, r *http.Request) (servicedef.ItemID, bool) {
	rawID := chi.URLParam(r, "id")
	parsed, err := uuid.Parse(rawID)
	if err != nil && s.opts.Faults.NotFoundForMalformedIDs {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return "", false
	}
	if err != nil {
		writeValidationErrors(w, []servicedef.ValidationError{{
			Type:  "uuid_parsing",
			Loc:   []interface{}{"path", "id"},
			Msg:   "Input should be a valid UUID",
			Input: rawID,
		}})
		return "", false
	}
	return servicedef.ItemID(parsed.String()), true
}

// ownedItem looks up an item owned by the current user, writing an error response and returning
// false if there is none.
func (s *Service) ownedItem(w http.ResponseWriter, r *http.Request, id servicedef.ItemID) (servicedef.Item, bool) {
	item, ok := s.store.get(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return servicedef.Item{}, false
	}
	if item.OwnerID != currentUser(r) {
		writeDetail(w, http.StatusBadRequest, "Not enough permissions")
		return servicedef.Item{}, false
	}
	return item, true
}

func (s *Service) createItem(w http.ResponseWriter, r *http.Request) {
	fields, ok := s.readItemFields(w, r, true)
	if !ok {
		return
	}
	item := servicedef.Item{
		ID:          servicedef.ItemID(uuid.NewString()),
		Title:       *fields.title,
		Description: ldvalue.NewOptionalStringFromPointer(fields.description),
		OwnerID:     currentUser(r),
	}
	s.store.add(item)
	writeJSON(w, http.StatusOK, item)
}

func (s *Service) listItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var problems []servicedef.ValidationError
	offset, problem := queryInt("offset", query.Get("offset"), 0)
	if problem != nil {
		problems = append(problems, *problem)
	}
	limit, problem := queryInt("limit", query.Get("limit"), defaultListLimit)
	if problem != nil {
		problems = append(problems, *problem)
	}
	if len(problems) != 0 {
		writeValidationErrors(w, problems)
		return
	}
	if s.opts.Faults.IgnoreListLimit {
		limit = defaultListLimit
	}
	data, count := s.store.list(currentUser(r), offset, limit)
	writeJSON(w, http.StatusOK, servicedef.ItemsPage{Data: data, Count: count})
}

func (s *Service) readItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	if item, ok := s.ownedItem(w, r, id); ok {
		writeJSON(w, http.StatusOK, item)
	}
}

// updateItem validates the whole request before looking at the store, so a bad body is a 422
// even for an item that does not exist.
func (s *Service) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	fields, ok := s.readItemFields(w, r, false)
	if !ok {
		return
	}
	item, ok := s.ownedItem(w, r, id)
	if !ok {
		return
	}
	if fields.title != nil {
		item.Title = *fields.title
	}
	if fields.descriptionPresent {
		item.Description = ldvalue.NewOptionalStringFromPointer(fields.description)
	}
	if !s.store.put(item) {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Service) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.itemID(w, r)
	if !ok {
		return
	}
	if s.opts.Faults.DeleteIsIdempotent {
		s.store.remove(id)
		writeJSON(w, http.StatusOK, servicedef.Message{Message: "Item deleted successfully"})
		return
	}
	item, ok := s.ownedItem(w, r, id)
	if !ok {
		return
	}
	s.store.remove(item.ID)
	writeJSON(w, http.StatusOK, servicedef.Message{Message: "Item deleted successfully"})
}
