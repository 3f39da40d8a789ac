package endpointreg

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/slashdevops/endpointreg/internal/hostid"
)

// HostIdentity is the network identity and environment of this host. It is
// recomputed for every registration attempt.
type HostIdentity struct {
	Hostname          string
	MACAddresses      []string // filtered, enumeration order
	IPAddresses       []string // filtered, enumeration order
	OS                string
	Arch              string
	ExternalReference string

	// InstallationDirectory is only resolved for variants that send it.
	InstallationDirectory string
}

// ReferenceSource resolves the stable machine reference for a namespace.
type ReferenceSource interface {
	Reference(ctx context.Context, namespace string) (string, error)
}

// Collector reads the host identity from the operating system.
// The zero value is not usable; create one with [NewCollector].
type Collector struct {
	interfaces InterfaceSource
	references ReferenceSource
	hostname   func() (string, error)
	executable func() (string, error)
	goos       string
	goarch     string
	logger     *slog.Logger
}

// NewCollector returns a Collector backed by the real operating system.
func NewCollector() *Collector {
	return &Collector{
		interfaces: systemInterfaces{},
		references: hostid.New(),
		hostname:   os.Hostname,
		executable: os.Executable,
		goos:       runtime.GOOS,
		goarch:     runtime.GOARCH,
	}
}

// WithLogger sets an optional [*slog.Logger]. A nil logger disables logging.
func (c *Collector) WithLogger(logger *slog.Logger) *Collector {
	c.logger = logger
	if p, ok := c.references.(*hostid.Provider); ok {
		p.WithLogger(logger)
	}

	return c
}

// WithInterfaceSource replaces network interface enumeration.
func (c *Collector) WithInterfaceSource(source InterfaceSource) *Collector {
	c.interfaces = source

	return c
}

// WithReferenceSource replaces the machine reference facility.
func (c *Collector) WithReferenceSource(source ReferenceSource) *Collector {
	c.references = source

	return c
}

// WithHostname replaces the hostname lookup.
func (c *Collector) WithHostname(hostname func() (string, error)) *Collector {
	c.hostname = hostname

	return c
}

// WithExecutable replaces the running executable path lookup.
func (c *Collector) WithExecutable(executable func() (string, error)) *Collector {
	c.executable = executable

	return c
}

// Collect builds the identity for variant. Any unavailable facility aborts
// the whole collection with a [*CollectionError]; no partial identity is
// returned. Hosts without qualifying addresses yield empty, non-nil sequences.
func (c *Collector) Collect(ctx context.Context, variant Variant) (*HostIdentity, error) {
	interfaces, err := c.interfaces.Interfaces()
	if err != nil {
		return nil, &CollectionError{Component: ComponentInterfaces, Err: err}
	}

	macs, ips := collectAddresses(interfaces)
	identity := &HostIdentity{
		MACAddresses: FilterMACAddresses(macs),
		IPAddresses:  FilterIPAddresses(ips),
		OS:           OperatingSystem(rawOS(c.goos)),
		Arch:         Arch(rawArch(c.goarch)),
	}

	c.logDebug("network addresses collected",
		"interfaces", len(interfaces),
		"macs", len(identity.MACAddresses),
		"macs_filtered", len(macs)-len(identity.MACAddresses),
		"ips", len(identity.IPAddresses),
		"ips_filtered", len(ips)-len(identity.IPAddresses),
	)

	identity.ExternalReference, err = c.references.Reference(ctx, variant.ReferenceNamespace)
	if err != nil {
		return nil, &CollectionError{Component: ComponentExternalReference, Err: err}
	}

	hostname, err := c.hostname()
	if err != nil {
		return nil, &CollectionError{Component: ComponentHostname, Err: err}
	}
	if strings.TrimSpace(hostname) == "" {
		return nil, &CollectionError{Component: ComponentHostname, Err: ErrEmptyHostname}
	}
	identity.Hostname = hostname

	if variant.IncludeInstallDir {
		identity.InstallationDirectory, err = executableDir(c.executable)
		if err != nil {
			return nil, &CollectionError{Component: ComponentInstallationDirectory, Err: err}
		}
	}

	c.logDebug("host identity collected",
		"hostname", identity.Hostname,
		"os", identity.OS,
		"arch", identity.Arch,
	)

	return identity, nil
}

func (c *Collector) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
