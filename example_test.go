package endpointreg_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/slashdevops/endpointreg"
)

// ExampleClient_Register registers a pre-built identity and prints the asset id.
func ExampleClient_Register() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"asset_id":"abc-123"}`)
	}))
	defer server.Close()

	client, err := endpointreg.NewClient(server.URL, "api-token")
	if err != nil {
		fmt.Println("client:", err)
		return
	}

	identity := &endpointreg.HostIdentity{
		Hostname:          "host-01",
		MACAddresses:      endpointreg.FilterMACAddresses([]string{"FF:FF:FF:FF:FF:FF", "AA:BB:CC:DD:EE:FF"}),
		IPAddresses:       endpointreg.FilterIPAddresses([]string{"127.0.0.1", "10.0.0.5", "169.254.1.1"}),
		OS:                endpointreg.OperatingSystem("linux"),
		Arch:              endpointreg.Arch("aarch64"),
		ExternalReference: "0f1e2d3c",
	}

	resp, err := client.Register(context.Background(), identity, endpointreg.ExecutionContext{
		ExecutedByUser:   "agent",
		InstallationMode: "session-user",
	}, endpointreg.VariantOpenBAS)
	if err != nil {
		fmt.Println("register:", err)
		return
	}

	fmt.Println(identity.MACAddresses, identity.IPAddresses, identity.OS, identity.Arch)
	fmt.Println(resp.AssetID)
	// Output:
	// [AA:BB:CC:DD:EE:FF] [10.0.0.5] Linux arm64
	// abc-123
}

// ExampleAPIError shows how callers tell a server rejection from a transport failure.
func ExampleAPIError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "forbidden")
	}))
	defer server.Close()

	client, _ := endpointreg.NewClient(server.URL, "api-token")
	_, err := client.Register(context.Background(), &endpointreg.HostIdentity{Hostname: "host-01"},
		endpointreg.ExecutionContext{}, endpointreg.VariantOpenAEV)

	var apiErr *endpointreg.APIError
	switch {
	case errors.As(err, &apiErr):
		fmt.Println("rejected:", apiErr.StatusCode, apiErr.Body)
	case errors.Is(err, endpointreg.ErrInternal):
		fmt.Println("transport failure")
	}
	// Output:
	// rejected: 403 forbidden
}
