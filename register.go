package endpointreg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/slashdevops/endpointreg/internal/version"
)

// RegisterPath is the registration endpoint relative to the server base URL.
const RegisterPath = "/api/endpoints/register"

// Variant selects the payload shape and reference namespace of a deployment.
type Variant struct {
	Name               string
	IncludeInstallDir  bool   // send agent_installation_directory
	IncludeServiceName bool   // send agent_service_name
	ReferenceNamespace string // namespace of asset_external_reference
}

// Known deployment variants.
var (
	// VariantOpenAEV is the current deployment: full payload, "openaev" namespace.
	VariantOpenAEV = Variant{
		Name:               "openaev",
		IncludeInstallDir:  true,
		IncludeServiceName: true,
		ReferenceNamespace: "openaev",
	}

	// VariantOpenBAS is the legacy deployment: no installation directory or
	// service name, "openbas" namespace.
	VariantOpenBAS = Variant{
		Name:               "openbas",
		ReferenceNamespace: "openbas",
	}
)

// ParseVariant returns the known variant named name. An empty name selects
// [VariantOpenAEV].
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", VariantOpenAEV.Name:
		return VariantOpenAEV, nil
	case VariantOpenBAS.Name:
		return VariantOpenBAS, nil
	default:
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
}

// ExecutionContext describes how the agent process is running. It is
// supplied by the caller.
type ExecutionContext struct {
	IsService        bool
	IsElevated       bool
	ExecutedByUser   string
	InstallationMode string
	ServiceName      string // sent only by variants with IncludeServiceName
}

// RegistrationRequest is the JSON body posted to [RegisterPath].
type RegistrationRequest struct {
	AssetName              string   `json:"asset_name"`
	AssetExternalReference string   `json:"asset_external_reference"`
	AgentVersion           string   `json:"endpoint_agent_version"`
	IPAddresses            []string `json:"endpoint_ips"`
	Platform               string   `json:"endpoint_platform"`
	Arch                   string   `json:"endpoint_arch"`
	MACAddresses           []string `json:"endpoint_mac_addresses"`
	Hostname               string   `json:"endpoint_hostname"`
	IsService              bool     `json:"agent_is_service"`
	IsElevated             bool     `json:"agent_is_elevated"`
	ExecutedByUser         string   `json:"agent_executed_by_user"`
	InstallationMode       string   `json:"agent_installation_mode"`

	// Variant dependent. nil means the key is absent; an empty string is still sent.
	InstallationDirectory *string `json:"agent_installation_directory,omitempty"`
	ServiceName           *string `json:"agent_service_name,omitempty"`
}

// RegisterResponse is the success body of the registration endpoint.
type RegisterResponse struct {
	AssetID string `json:"asset_id"`
}

// NewRegistrationRequest assembles the request body for identity and execCtx
// according to variant.
func NewRegistrationRequest(identity *HostIdentity, execCtx ExecutionContext, variant Variant) RegistrationRequest {
	req := RegistrationRequest{
		AssetName:              identity.Hostname,
		AssetExternalReference: identity.ExternalReference,
		AgentVersion:           version.Effective(),
		IPAddresses:            nonNil(identity.IPAddresses),
		Platform:               identity.OS,
		Arch:                   identity.Arch,
		MACAddresses:           nonNil(identity.MACAddresses),
		Hostname:               identity.Hostname,
		IsService:              execCtx.IsService,
		IsElevated:             execCtx.IsElevated,
		ExecutedByUser:         execCtx.ExecutedByUser,
		InstallationMode:       execCtx.InstallationMode,
	}

	if variant.IncludeInstallDir {
		dir := identity.InstallationDirectory
		req.InstallationDirectory = &dir
	}
	if variant.IncludeServiceName {
		name := execCtx.ServiceName
		req.ServiceName = &name
	}

	return req
}

// Register posts identity to the registration endpoint exactly once.
//
// It returns a [*RegisterResponse] on a 2xx status with a valid body, an
// [*APIError] carrying the response body on any other status, and an
// [*InternalError] when the exchange fails or the success body is malformed.
// There is no retry; ctx bounds the exchange.
func (c *Client) Register(ctx context.Context, identity *HostIdentity, execCtx ExecutionContext, variant Variant) (*RegisterResponse, error) {
	if identity == nil {
		return nil, &InternalError{Op: "encode", Err: ErrNilIdentity}
	}

	resp, err := c.postJSON(ctx, RegisterPath, NewRegistrationRequest(identity, execCtx, variant))
	if err != nil {
		c.logWarn("registration request failed", "error", err)

		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		msg := string(body)
		if readErr != nil {
			msg = unknownErrorMessage
		}
		c.logWarn("registration rejected", "status", resp.StatusCode, "body", msg)

		return nil, &APIError{StatusCode: resp.StatusCode, Body: msg}
	}

	out, err := decodeRegisterResponse(resp.Body)
	if err != nil {
		return nil, &InternalError{Op: "decode", Err: err}
	}

	c.logInfo("endpoint registered", "asset_id", out.AssetID, "variant", variant.Name)

	return out, nil
}

// decodeRegisterResponse parses a success body. The body must be exactly one
// JSON object whose asset_id is a string; an empty string is accepted.
func decodeRegisterResponse(r io.Reader) (*RegisterResponse, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw struct {
		AssetID *string `json:"asset_id"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw.AssetID == nil {
		return nil, ErrMissingAssetID
	}

	return &RegisterResponse{AssetID: *raw.AssetID}, nil
}

// RegisterAgent collects the host identity and registers it. A collection
// failure is returned before any request is sent.
func (c *Client) RegisterAgent(ctx context.Context, collector *Collector, execCtx ExecutionContext, variant Variant) (*RegisterResponse, error) {
	identity, err := collector.Collect(ctx, variant)
	if err != nil {
		return nil, err
	}

	return c.Register(ctx, identity, execCtx, variant)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
