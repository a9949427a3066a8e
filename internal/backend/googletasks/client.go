// Package googletasks implements store.Provider on a Google Tasks list.
//
// Every task of the collection is mirrored as one Google task whose notes
// carry a marker with the collection ID. Google tasks without a marker are
// ignored, so the list may be shared with tasks created elsewhere.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/task"
)

const (
	// PageSize is the number of tasks requested per API page.
	PageSize = 100

	// APITimeout bounds each API round trip.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// MarkerPrefix starts the notes of every mirrored task.
	MarkerPrefix = "todo-id:"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Provider implements store.Provider using the Google Tasks API.
type Provider struct {
	svc      *tasks.Service
	listName string
}

// OAuthConfig reads the OAuth client credentials from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// LoadToken reads the stored OAuth token.
func LoadToken(cfg *config.Config) (*oauth2.Token, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &token, nil
}

// New creates a provider authenticated with the stored credentials.
// Requires oauth_client.json and token.json in the config directory.
func New(ctx context.Context, cfg *config.Config) (*Provider, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}

	// The token source refreshes and the client keeps it for later calls.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))
	return NewWithHTTPClient(ctx, httpClient, cfg.List())
}

// NewWithHTTPClient creates a provider with a custom HTTP client.
// Extra options (for example option.WithEndpoint) are passed to the API client.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listName string, opts ...option.ClientOption) (*Provider, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Provider{svc: svc, listName: listName}, nil
}

// ListName returns the title of the backing list.
func (p *Provider) ListName() string {
	return p.listName
}

// Load reads all mirrored tasks. A missing list is an empty collection.
func (p *Provider) Load(ctx context.Context) (task.Collection, error) {
	listID, err := p.findList(ctx)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		return task.Collection{}, nil
	}

	remote, err := p.mirrored(ctx, listID)
	if err != nil {
		return nil, err
	}

	result := make(task.Collection, len(remote))
	for id, rt := range remote {
		result[id] = task.Task{
			ID:          id,
			Description: rt.Title,
			Completed:   rt.Status == statusCompleted,
		}
	}
	return result, nil
}

// Save makes the mirrored tasks of the list match the collection.
// The list is created on first save.
func (p *Provider) Save(ctx context.Context, coll task.Collection) error {
	listID, err := p.findList(ctx)
	if err != nil {
		return err
	}
	if listID == "" {
		if listID, err = p.createList(ctx); err != nil {
			return err
		}
	}

	remote, err := p.mirrored(ctx, listID)
	if err != nil {
		return err
	}

	for _, t := range coll.Sorted() {
		rt, ok := remote[t.ID]
		switch {
		case !ok:
			err = p.insert(ctx, listID, t)
		case rt.Title != t.Description || rt.Status != statusOf(t):
			err = p.patch(ctx, listID, rt.Id, t)
		}
		if err != nil {
			return err
		}
	}

	for id, rt := range remote {
		if _, ok := coll[id]; ok {
			continue
		}
		if err := p.remove(ctx, listID, rt.Id); err != nil {
			return err
		}
	}
	return nil
}

// findList returns the ID of the list titled listName (case-insensitive,
// trimmed), or "" when there is none.
func (p *Provider) findList(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	want := strings.ToLower(strings.TrimSpace(p.listName))
	var matches []string
	err := p.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, l := range resp.Items {
			if strings.ToLower(strings.TrimSpace(l.Title)) == want {
				matches = append(matches, l.Id)
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err, "list task lists")
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", task.Storage(nil, "ambiguous list name: %s", p.listName)
	}
}

func (p *Provider) createList(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	l, err := p.svc.Tasklists.Insert(&tasks.TaskList{Title: p.listName}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err, "create list "+p.listName)
	}
	return l.Id, nil
}

// mirrored returns the marked tasks of a list keyed by collection ID.
func (p *Provider) mirrored(ctx context.Context, listID string) (map[int]*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := make(map[int]*tasks.Task)
	var dup int
	err := p.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, rt := range resp.Items {
				id, ok := ParseMarker(rt.Notes)
				if !ok {
					continue
				}
				if _, seen := result[id]; seen {
					dup = id
				}
				result[id] = rt
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err, "list tasks")
	}
	if dup != 0 {
		return nil, task.Storage(nil, "duplicate task id %d in list %s", dup, p.listName)
	}
	return result, nil
}

func (p *Provider) insert(ctx context.Context, listID string, t task.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := p.svc.Tasks.Insert(listID, &tasks.Task{
		Title:  t.Description,
		Notes:  Marker(t.ID),
		Status: statusOf(t),
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(err, fmt.Sprintf("insert task %d", t.ID))
	}
	return nil
}

func (p *Provider) patch(ctx context.Context, listID, remoteID string, t task.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := p.svc.Tasks.Patch(listID, remoteID, &tasks.Task{
		Title:  t.Description,
		Status: statusOf(t),
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(err, fmt.Sprintf("update task %d", t.ID))
	}
	return nil
}

func (p *Provider) remove(ctx context.Context, listID, remoteID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := p.svc.Tasks.Delete(listID, remoteID).Context(ctx).Do(); err != nil {
		return wrapError(err, "delete task")
	}
	return nil
}

// Marker returns the notes value that ties a Google task to id.
func Marker(id int) string {
	return MarkerPrefix + strconv.Itoa(id)
}

// ParseMarker extracts the collection ID from a Google task's notes.
func ParseMarker(notes string) (int, bool) {
	notes = strings.TrimSpace(notes)
	if !strings.HasPrefix(notes, MarkerPrefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(notes, MarkerPrefix))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func statusOf(t task.Task) string {
	if t.Completed {
		return statusCompleted
	}
	return statusNeedsAction
}

// wrapError maps API errors to storage errors with user-friendly messages.
func wrapError(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return task.Storage(nil, "%s: request timed out", op)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return task.Storage(nil, "%s: token expired or revoked (run: todo login)", op)
		case http.StatusNotFound:
			return task.Storage(nil, "%s: not found", op)
		}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return task.Storage(nil, "%s: token expired or revoked (run: todo login)", op)
	}

	return task.Storage(err, "%s", op)
}
