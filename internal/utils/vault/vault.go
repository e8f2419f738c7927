// Package vault reads secrets from a HashiCorp Vault KV v2 mount, logging in
// with the pod's Kubernetes service account.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/dwarvesf/arkswap/internal/utils/config"
)

const defaultTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

type Client struct {
	rest      *resty.Client
	kvPath    string
	role      string
	tokenPath string
	token     string
}

type loginResponse struct {
	Auth *struct {
		ClientToken string `json:"client_token"`
	} `json:"auth"`
	Errors []string `json:"errors"`
}

type kvResponse struct {
	Data *struct {
		Data map[string]interface{} `json:"data"`
	} `json:"data"`
	Errors []string `json:"errors"`
}

func New(cfg config.VaultConfig) *Client {
	return &Client{
		rest:      resty.New().SetBaseURL(cfg.Addr).SetHeader("Content-Type", "application/json"),
		kvPath:    cfg.KVPath,
		role:      cfg.Role,
		tokenPath: defaultTokenPath,
	}
}

// Login exchanges the service account token for a Vault client token.
func (c *Client) Login(ctx context.Context) error {
	jwt, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return errors.Wrap(err, "read service account token")
	}

	var out loginResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"jwt": string(jwt), "role": c.role}).
		Post("/v1/auth/kubernetes/login")
	if err != nil {
		return errors.Wrap(err, "vault login")
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil && !resp.IsError() {
		return errors.Wrap(err, "parse vault login response")
	}
	if resp.IsError() || len(out.Errors) > 0 {
		return fmt.Errorf("vault login failed with status %d: %v", resp.StatusCode(), out.Errors)
	}
	if out.Auth == nil || out.Auth.ClientToken == "" {
		return errors.New("vault login returned no client token")
	}

	c.token = out.Auth.ClientToken
	return nil
}

// GetKV returns one string field of the configured KV v2 secret.
func (c *Client) GetKV(ctx context.Context, field string) (string, error) {
	if c.token == "" {
		if err := c.Login(ctx); err != nil {
			return "", err
		}
	}

	var out kvResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("X-Vault-Token", c.token).
		Get("/v1/" + c.kvPath)
	if err != nil {
		return "", errors.Wrap(err, "vault kv get")
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil && !resp.IsError() {
		return "", errors.Wrap(err, "parse vault kv response")
	}
	if resp.IsError() || len(out.Errors) > 0 {
		return "", fmt.Errorf("vault kv get failed with status %d: %v", resp.StatusCode(), out.Errors)
	}
	if out.Data == nil || out.Data.Data == nil {
		return "", errors.New("vault response has no secret data")
	}

	raw, ok := out.Data.Data[field]
	if !ok {
		return "", fmt.Errorf("secret field %q not found", field)
	}
	secret, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("secret field %q is not a string", field)
	}
	return secret, nil
}
