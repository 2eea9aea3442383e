package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medivault/internal/platform/apperr"
	"medivault/internal/platform/httpclient"
	"medivault/internal/ports/identity"
)

var (
	ErrNotConfigured = errors.New("identity directory not configured")
	ErrUpstream      = errors.New("identity directory upstream error")
)

// Config del directorio externo de identidades.
type Config struct {
	BaseURL string
	APIKey  string

	// Header de la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Client implementa identity.Directory contra un servicio HTTP.
//
//	GET /v1/patients/by-code/{code}
//	GET /v1/users/{id}
//	GET /v1/users?role=ADMIN&active=true
type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type identityDTO struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PatientCode string `json:"patient_code"`
	Active      bool   `json:"is_active"`
}

func (c *Client) FindPatientByCode(ctx context.Context, code string) (identity.Identity, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	id, err := c.getOne(ctx, "/v1/patients/by-code/"+url.PathEscape(code), "patient "+code)
	if err != nil {
		return identity.Identity{}, err
	}
	if id.Role != identity.RolePatient || !id.Active {
		return identity.Identity{}, apperr.NotFound("patient %s", code)
	}
	return id, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (identity.Identity, error) {
	id = strings.TrimSpace(id)
	return c.getOne(ctx, "/v1/users/"+url.PathEscape(id), "user "+id)
}

func (c *Client) ListActiveAdmins(ctx context.Context) ([]identity.Identity, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	var out []identityDTO
	if err := c.http.DoJSON(ctx, http.MethodGet, "/v1/users?role=ADMIN&active=true", c.headers(), nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	admins := make([]identity.Identity, 0, len(out))
	for _, dto := range out {
		id, ok := dto.toIdentity()
		if !ok || id.Role != identity.RoleAdmin || !id.Active {
			continue
		}
		admins = append(admins, id)
	}
	return admins, nil
}

func (c *Client) getOne(ctx context.Context, path, what string) (identity.Identity, error) {
	if !c.IsConfigured() {
		return identity.Identity{}, ErrNotConfigured
	}
	var dto identityDTO
	err := c.http.DoJSON(ctx, http.MethodGet, path, c.headers(), nil, &dto)
	switch {
	case httpclient.IsStatus(err, http.StatusNotFound):
		return identity.Identity{}, apperr.NotFound("%s", what)
	case err != nil:
		return identity.Identity{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	id, ok := dto.toIdentity()
	if !ok {
		return identity.Identity{}, fmt.Errorf("%w: invalid identity for %s", ErrUpstream, what)
	}
	return id, nil
}

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{c.apiKeyHeader: c.apiKey}
}

func (d identityDTO) toIdentity() (identity.Identity, bool) {
	role, ok := identity.ParseRole(d.Role)
	if !ok || strings.TrimSpace(d.ID) == "" {
		return identity.Identity{}, false
	}
	return identity.Identity{
		ID:          strings.TrimSpace(d.ID),
		Role:        role,
		FullName:    strings.TrimSpace(d.FullName),
		Email:       strings.TrimSpace(d.Email),
		PatientCode: strings.ToUpper(strings.TrimSpace(d.PatientCode)),
		Active:      d.Active,
	}, true
}
