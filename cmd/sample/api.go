package main

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crossbind/crossbind"
)

// Item is a stored catalog entry.
type Item struct {
	ID        string    `json:"id" doc:"Server-assigned item identifier."`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemInput is the writable portion of an item.
type ItemInput struct {
	Name  string   `json:"name" required:"true" minLength:"1" maxLength:"120"`
	Price float64  `json:"price" required:"true" minimum:"0"`
	Tags  []string `json:"tags" maxItems:"10"`
}

// ItemList is a page of items.
type ItemList struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

type listItemsRequest struct {
	Filter listFilter
}

// listFilter is flattened into query parameters on GET.
type listFilter struct {
	Tag   string `json:"tag" doc:"Only items carrying this tag."`
	Limit int    `json:"limit" default:"20" minimum:"1" maximum:"100"`
}

type getItemRequest struct {
	ItemID string `param:"item_id" required:"true"`
}

type createItemRequest struct {
	Item ItemInput
}

type updateItemRequest struct {
	ItemID string `param:"item_id" required:"true"`
	Item   ItemInput
}

type deleteItemRequest struct {
	ItemID string `param:"item_id" required:"true"`
}

// store is a uuid-keyed in-memory item catalog.
type store struct {
	mu    sync.RWMutex
	items map[string]Item
}

func newStore() *store {
	return &store{items: make(map[string]Item)}
}

func (s *store) list(ctx context.Context, req *listItemsRequest) (*ItemList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if req.Filter.Tag != "" && !hasTag(it, req.Filter.Tag) {
			continue
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })

	total := len(items)
	if len(items) > req.Filter.Limit {
		items = items[:req.Filter.Limit]
	}
	return &ItemList{Items: items, Total: total}, nil
}

func (s *store) get(ctx context.Context, req *getItemRequest) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[req.ItemID]
	if !ok {
		return nil, crossbind.Errorf(http.StatusNotFound, "item %s not found", req.ItemID)
	}
	return &it, nil
}

func (s *store) create(ctx context.Context, req *createItemRequest) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := Item{
		ID:        uuid.NewString(),
		Name:      req.Item.Name,
		Price:     req.Item.Price,
		Tags:      req.Item.Tags,
		CreatedAt: time.Now().UTC(),
	}
	s.items[it.ID] = it
	return &it, nil
}

func (s *store) update(ctx context.Context, req *updateItemRequest) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[req.ItemID]
	if !ok {
		return nil, crossbind.Errorf(http.StatusNotFound, "item %s not found", req.ItemID)
	}
	it.Name = req.Item.Name
	it.Price = req.Item.Price
	it.Tags = req.Item.Tags
	s.items[it.ID] = it
	return &it, nil
}

func (s *store) delete(ctx context.Context, req *deleteItemRequest) (*crossbind.Void, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[req.ItemID]; !ok {
		return nil, crossbind.Errorf(http.StatusNotFound, "item %s not found", req.ItemID)
	}
	delete(s.items, req.ItemID)
	return &crossbind.Void{}, nil
}

func hasTag(it Item, tag string) bool {
	for _, t := range it.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// buildRouter declares the API once; the serve command binds it into whichever
// framework the config selects, and the spec command writes its document.
func buildRouter(cfg *Config) *crossbind.Router {
	r := crossbind.New(
		crossbind.WithTitle(cfg.API.Title),
		crossbind.WithVersion(cfg.API.Version),
		crossbind.WithAPIDescription(cfg.API.Description),
	)

	s := newStore()
	items := r.Group("/items", crossbind.WithGroupTags("items"))

	crossbind.Get(items, "", s.list,
		crossbind.WithSummary("List items"),
		crossbind.WithDescription("Lists catalog items, optionally filtered by tag."))
	crossbind.Post(items, "", s.create,
		crossbind.WithStatus(http.StatusCreated),
		crossbind.WithSummary("Create an item"))
	crossbind.Get(items, "/{item_id}", s.get,
		crossbind.WithSummary("Fetch one item"))
	crossbind.Put(items, "/{item_id}", s.update,
		crossbind.WithSummary("Replace an item"))
	crossbind.Delete(items, "/{item_id}", s.delete,
		crossbind.WithSummary("Delete an item"))

	return r
}
