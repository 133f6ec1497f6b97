// Package client содержит HTTP-клиент заглушки OFBiz для интеграционных тестов
// и утилит, которым нужно работать с ней как с настоящим OFBiz.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/selzcore/mock-ofbiz/internal/http/response"
	"github.com/selzcore/mock-ofbiz/internal/models"
	"github.com/selzcore/mock-ofbiz/internal/services/directory"
)

const defaultTimeout = 10 * time.Second

// APIError — ответ заглушки со статусом ошибки.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mock ofbiz: %d %s: %s", e.StatusCode, e.Kind, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New создаёт клиент для заглушки по адресу baseURL, например http://localhost:8081.
// Если httpClient равен nil, используется клиент с таймаутом 10 секунд.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// CreateUserRequest — тело запроса createUser.
type CreateUserRequest struct {
	UserLoginID  string `json:"userLoginId"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	UserPassword string `json:"userPassword,omitempty"`
	TenantID     string `json:"tenantId,omitempty"`
}

// UserList — ответ списка пользователей.
type UserList struct {
	Success bool                  `json:"success"`
	Total   int                   `json:"total"`
	Users   []models.UserListItem `json:"users"`
}

// HealthStatus — ответ проверки доступности.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type userEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    models.UserInfo `json:"data"`
}

type partyGroupEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    models.PartyGroup `json:"data"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do выполняет запрос и декодирует тело в out при статусе из ok.
// Любой другой статус возвращается как *APIError.
func (c *Client) do(req *http.Request, out any, ok ...int) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	for _, code := range ok {
		if resp.StatusCode == code {
			if out == nil {
				return nil
			}
			return json.NewDecoder(resp.Body).Decode(out)
		}
	}

	var errResp response.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		errResp.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Kind:       errResp.Error,
		Message:    errResp.Message,
	}
}

// Health вызывает GET /health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	var out HealthStatus
	if err := c.do(req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers вызывает GET /users.
func (c *Client) ListUsers(ctx context.Context) (*UserList, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	var out UserList
	if err := c.do(req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// IssueToken получает токен по логину и паролю через Basic Auth.
func (c *Client) IssueToken(ctx context.Context, userLoginID, password string) (*directory.AccessToken, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/auth/token", nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(userLoginID, password)
	var out directory.AccessToken
	if err := c.do(req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserInfo вызывает сервис getUserInfo.
func (c *Client) GetUserInfo(ctx context.Context, userLoginID string) (*models.UserInfo, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/services/getUserInfo", map[string]string{"userLoginId": userLoginID})
	if err != nil {
		return nil, err
	}
	var out userEnvelope
	if err := c.do(req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreateUser вызывает сервис createUser.
func (c *Client) CreateUser(ctx context.Context, in CreateUserRequest) (*models.UserInfo, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/services/createUser", in)
	if err != nil {
		return nil, err
	}
	var out userEnvelope
	if err := c.do(req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreatePartyGroup вызывает сервис createPartyGroup.
func (c *Client) CreatePartyGroup(ctx context.Context, partyID, groupName string) (*models.PartyGroup, error) {
	body := map[string]string{"partyId": partyID}
	if groupName != "" {
		body["groupName"] = groupName
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/services/createPartyGroup", body)
	if err != nil {
		return nil, err
	}
	var out partyGroupEnvelope
	if err := c.do(req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
