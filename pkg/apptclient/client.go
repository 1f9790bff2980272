package apptclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const apiPrefix = "/api/v1"

// HeaderBusinessID скоупит защищённые ручки на один бизнес
const HeaderBusinessID = "X-Business-ID"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client is an HTTP client for the appointment service. Errors come in
// two shapes: a *APIError when the server answered with a non-2xx
// status, or a transport error (with the net/url cause preserved in the
// chain) when the request never got through.
type Client struct {
	baseURL    string
	businessID int64
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый клиент сервиса записей
func NewClient(baseURL string, businessID int64, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		businessID: businessID,
		log:        log,
	}
}

// AppointmentsPath is the collection path appointments are created at.
const AppointmentsPath = apiPrefix + "/appointments"

// AppointmentPath returns the path of one appointment.
func AppointmentPath(id int64) string {
	return fmt.Sprintf("%s/appointments/%d", apiPrefix, id)
}

// AppointmentStatusPath returns the status sub-resource path of one
// appointment.
func AppointmentStatusPath(id int64) string {
	return fmt.Sprintf("%s/appointments/%d/status", apiPrefix, id)
}

// CreateAppointment создает запись от имени владельца
func (c *Client) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	var appt Appointment
	if err := c.call(ctx, http.MethodPost, AppointmentsPath, req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// UpdateAppointment полностью переписывает редактируемые поля записи
func (c *Client) UpdateAppointment(ctx context.Context, id int64, req *UpdateAppointmentRequest) (*Appointment, error) {
	var appt Appointment
	if err := c.call(ctx, http.MethodPut, AppointmentPath(id), req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// SetStatus меняет статус записи
func (c *Client) SetStatus(ctx context.Context, id int64, req *SetStatusRequest) (*Appointment, error) {
	var appt Appointment
	if err := c.call(ctx, http.MethodPatch, AppointmentStatusPath(id), req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// DeleteAppointment удаляет запись
func (c *Client) DeleteAppointment(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, AppointmentPath(id), nil, nil)
}

// ListAppointments возвращает записи бизнеса с фильтрами
func (c *Client) ListAppointments(ctx context.Context, opts *ListAppointmentsOptions) (*AppointmentList, error) {
	path := AppointmentsPath
	if opts != nil {
		q := url.Values{}
		if opts.Date != "" {
			q.Set("date", opts.Date)
		}
		if opts.From != "" {
			q.Set("from", opts.From)
		}
		if opts.To != "" {
			q.Set("to", opts.To)
		}
		if opts.Status != "" {
			q.Set("status", opts.Status)
		}
		if opts.IncludeCancelled {
			q.Set("includeCancelled", "true")
		}
		if encoded := q.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var list AppointmentList
	if err := c.call(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListTypes возвращает каталог типов записи
func (c *Client) ListTypes(ctx context.Context, includeInactive bool) (*TypeList, error) {
	path := apiPrefix + "/appointment-types"
	if includeInactive {
		path += "?includeInactive=true"
	}

	var list TypeList
	if err := c.call(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetSettings возвращает профиль и настройки бизнеса
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := c.call(ctx, http.MethodGet, apiPrefix+"/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings обновляет профиль и настройки бизнеса
func (c *Client) UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*Settings, error) {
	var settings Settings
	if err := c.call(ctx, http.MethodPut, apiPrefix+"/settings", req, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Export скачивает бандл данных бизнеса. Тело не разбирается: клиент
// переносит бандлы как есть, формат знает сервер.
func (c *Client) Export(ctx context.Context) (json.RawMessage, error) {
	var bundle json.RawMessage
	if err := c.call(ctx, http.MethodGet, apiPrefix+"/data/export", nil, &bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Import загружает бандл данных бизнеса
func (c *Client) Import(ctx context.Context, bundle json.RawMessage) (*ImportResult, error) {
	var result ImportResult
	if err := c.call(ctx, http.MethodPost, apiPrefix+"/data/import", bundle, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Availability возвращает свободные слоты публичной страницы
func (c *Client) Availability(ctx context.Context, slug string, typeID int64, date string) (*Availability, error) {
	path := fmt.Sprintf("%s/public/%s/availability?typeId=%d&date=%s",
		apiPrefix, url.PathEscape(slug), typeID, url.QueryEscape(date))

	var avail Availability
	if err := c.call(ctx, http.MethodGet, path, nil, &avail); err != nil {
		return nil, err
	}
	return &avail, nil
}

// Health проверяет доступность сервера. Используется как пробник
// монитором соединения.
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// Do issues a mutation verbatim: nil on 2xx, *APIError on a server
// rejection, a transport error otherwise. Response bodies are
// discarded - callers that need the result use the typed methods.
func (c *Client) Do(ctx context.Context, method, path string, body json.RawMessage) error {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	resp, err := c.newRequestAndDo(ctx, method, path, reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Replay re-issues a queued mutation verbatim and reports the HTTP
// status the server answered with. Unlike Do, a server rejection is not
// an error here: the replaying side dispositions on the raw status.
func (c *Client) Replay(ctx context.Context, method, path string, body json.RawMessage) (int, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	resp, err := c.newRequestAndDo(ctx, method, path, reader)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Тело не нужно, но соединение должно вернуться в пул
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// call выполняет запрос с JSON телом и разбирает JSON ответ в out.
// Не-2xx ответ возвращается как *APIError.
func (c *Client) call(ctx context.Context, method, path string, reqBody, out interface{}) error {
	var reader io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	resp, err := c.newRequestAndDo(ctx, method, path, reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrInternal, err)
		}
	}

	return nil
}

// newRequestAndDo собирает запрос и выполняет его. Транспортная ошибка
// оборачивается через %w: классификации нужен исходный net/url сбой.
func (c *Client) newRequestAndDo(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.businessID > 0 {
		req.Header.Set(HeaderBusinessID, strconv.FormatInt(c.businessID, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apptclient: failed to execute request: %w", err)
	}

	return resp, nil
}

// parseAPIError разбирает тело ошибки {"code", "message"}.
func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
