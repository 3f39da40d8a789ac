// Package endpointreg registers an endpoint agent with its management server.
//
// Registration is a single operation in two steps: collect the identity of
// the host, then post it to the server and receive an asset identifier.
//
// # Quick Start
//
//	client, err := endpointreg.NewClient("https://aev.example.com", token)
//	if err != nil {
//		return err
//	}
//	resp, err := client.RegisterAgent(ctx, endpointreg.NewCollector(), execCtx, endpointreg.VariantOpenAEV)
//	if err != nil {
//		return err
//	}
//	fmt.Println(resp.AssetID)
//
// # Host Identity
//
// A [Collector] enumerates every network interface and keeps only addresses
// that identify the host to a remote server:
//
//   - MAC addresses FF:FF:FF:FF:FF:FF, 00:00:00:00:00:00 and 01:80:C2:00:00:00 are dropped
//   - IP addresses ::1, 127.* and 169.254.* are dropped
//
// Filtering is a stable retain pass; see [FilterMACAddresses] and
// [FilterIPAddresses]. The OS and CPU architecture are normalized with
// [OperatingSystem] and [Arch]. The external reference is a SHA-256 digest of
// the OS machine identifier under the variant's namespace, so it stays the
// same across reboots and reinstalls.
//
// A host with no qualifying addresses is valid and yields empty lists. Any
// unavailable facility (interfaces, hostname, machine identifier, executable
// path) fails the whole collection with a [*CollectionError] before anything
// is sent.
//
// # Variants
//
// A [Variant] selects the reference namespace and whether the installation
// directory and service name are part of the payload. [VariantOpenAEV] sends
// both; [VariantOpenBAS] sends neither.
//
// # Errors
//
// [Client.Register] performs exactly one POST to [RegisterPath] and returns
// one of:
//
//   - a [*RegisterResponse] with the server-assigned asset id
//   - an [*APIError] with the raw response body for non-2xx statuses
//   - an [*InternalError] for transport failures and malformed success bodies
//
// Use [errors.Is] with [ErrCollection], [ErrAPI] or [ErrInternal] to branch on
// the kind. Nothing is retried; retry policy belongs to the caller.
//
// # Thread Safety
//
// [Client] is safe for concurrent use. Every registration builds its own
// identity and request; nothing is shared between attempts besides the
// underlying HTTP connection pool.
package endpointreg
