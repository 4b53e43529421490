package servicedef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	LoginPath       = "/api/v1/login/access-token"
	ItemsPath       = "/api/v1/items/"
	HealthCheckPath = "/api/v1/utils/health-check/"
)

// Paths are the resource paths of the items service, relative to its base URL.
type Paths struct {
	Login       string `yaml:"login" default:"/api/v1/login/access-token"`
	Items       string `yaml:"items" default:"/api/v1/items/"`
	HealthCheck string `yaml:"health_check" default:"/api/v1/utils/health-check/"`
}

func DefaultPaths() Paths {
	return Paths{Login: LoginPath, Items: ItemsPath, HealthCheck: HealthCheckPath}
}

// Item returns the path of a single item. The collection path is expected to end in a slash.
func (p Paths) Item(id ItemID) string {
	return p.Items + url.PathEscape(string(id))
}

// ItemID is a server-assigned item identifier. Services differ in whether they use integers or
// UUID strings, so it is carried as an opaque string and can be decoded from either.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("item id must be a string or a number, got %s", string(data))
	}
	*id = ItemID(n.String())
	return nil
}

func (id ItemID) String() string {
	return string(id)
}

// ItemPayload is the request body for creating or updating an item. Undefined fields are sent as
// JSON null, never omitted.
type ItemPayload struct {
	Title       ldvalue.OptionalString `json:"title"`
	Description ldvalue.OptionalString `json:"description"`
}

func NewItemPayload(title, description string) ItemPayload {
	return ItemPayload{
		Title:       ldvalue.NewOptionalString(title),
		Description: ldvalue.NewOptionalString(description),
	}
}

type Item struct {
	ID          ItemID                 `json:"id"`
	Title       string                 `json:"title"`
	Description ldvalue.OptionalString `json:"description"`
	OwnerID     string                 `json:"owner_id,omitempty"`
}

type ItemsPage struct {
	Data  []Item `json:"data"`
	Count int    `json:"count"`
}

type ListParams struct {
	Limit  ldvalue.OptionalInt
	Offset ldvalue.OptionalInt
}

func (p ListParams) Query() url.Values {
	q := make(url.Values)
	if p.Limit.IsDefined() {
		q.Set("limit", strconv.Itoa(p.Limit.IntValue()))
	}
	if p.Offset.IsDefined() {
		q.Set("offset", strconv.Itoa(p.Offset.IntValue()))
	}
	return q
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// ErrorResponse is the error body of the service. Detail is either a message string or a list of
// validation errors.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type ValidationError struct {
	Type  string        `json:"type"`
	Loc   []interface{} `json:"loc"`
	Msg   string        `json:"msg"`
	Input interface{}   `json:"input,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}
