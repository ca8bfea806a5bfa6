package versioning

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// SupportedVersionsHeader lists every version the dispatcher serves.
const SupportedVersionsHeader = "api-supported-versions"

// Error codes written in the body of rejected requests.
const (
	CodeUnspecified = "ApiVersionUnspecified"
	CodeInvalid     = "InvalidApiVersion"
	CodeAmbiguous   = "AmbiguousApiVersion"
	CodeUnsupported = "UnsupportedApiVersion"
)

// Error is a version resolution failure. Every Error maps to 400 Bad Request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDefaultVersion sets the version used when a request carries none
// and AssumeDefault is enabled.
func WithDefaultVersion(v string) Option {
	return func(d *Dispatcher) {
		d.defaultRaw = v
	}
}

// AssumeDefault controls whether requests without a version token fall back
// to the default version instead of being rejected.
func AssumeDefault(enabled bool) Option {
	return func(d *Dispatcher) {
		d.assumeDefault = enabled
	}
}

// ReportVersions adds the api-supported-versions header to every response.
func ReportVersions(enabled bool) Option {
	return func(d *Dispatcher) {
		d.report = enabled
	}
}

// Dispatcher routes a request to the handler registered for its API version.
// Registration happens at startup; ServeHTTP only reads.
type Dispatcher struct {
	reader        Reader
	handlers      map[Version]http.Handler
	defaultRaw    string
	defaultVer    Version
	hasDefault    bool
	assumeDefault bool
	report        bool
}

// New creates a Dispatcher reading versions with reader.
// The default version is validated here so misconfiguration fails at startup.
func New(reader Reader, opts ...Option) (*Dispatcher, error) {
	if reader == nil {
		return nil, fmt.Errorf("versioning: reader is required")
	}

	d := &Dispatcher{
		reader:   reader,
		handlers: make(map[Version]http.Handler),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.defaultRaw != "" {
		v, err := Parse(d.defaultRaw)
		if err != nil {
			return nil, fmt.Errorf("versioning: default version: %w", err)
		}
		d.defaultVer = v
		d.hasDefault = true
	}

	if d.assumeDefault && !d.hasDefault {
		return nil, fmt.Errorf("versioning: assuming the default version requires a default version")
	}

	return d, nil
}

// Handle registers h for version. It panics on an unparsable or duplicate
// version, like http.ServeMux does for bad patterns.
func (d *Dispatcher) Handle(version string, h http.Handler) {
	v, err := Parse(version)
	if err != nil {
		panic(fmt.Sprintf("versioning: %v", err))
	}
	if _, exists := d.handlers[v]; exists {
		panic(fmt.Sprintf("versioning: version %s registered twice", v))
	}
	d.handlers[v] = h
}

// HandleFunc registers a handler function for version.
func (d *Dispatcher) HandleFunc(version string, h http.HandlerFunc) {
	d.Handle(version, h)
}

// Versions returns the registered versions in ascending order.
func (d *Dispatcher) Versions() []Version {
	out := make([]Version, 0, len(d.handlers))
	for v := range d.handlers {
		out = append(out, v)
	}
	slices.SortFunc(out, Version.Compare)
	return out
}

// Resolve determines which registered version serves r.
func (d *Dispatcher) Resolve(r *http.Request) (Version, error) {
	raw := d.reader.Read(r)

	if len(raw) == 0 {
		if !d.assumeDefault {
			return Version{}, &Error{Code: CodeUnspecified, Message: "An API version is required, but was not specified."}
		}
		return d.supported(d.defaultVer, d.defaultVer.String())
	}

	var resolved Version
	for i, token := range raw {
		v, err := Parse(token)
		if err != nil {
			return Version{}, &Error{
				Code:    CodeInvalid,
				Message: fmt.Sprintf("The requested API version '%s' is invalid.", token),
			}
		}
		if i > 0 && v != resolved {
			return Version{}, &Error{
				Code:    CodeAmbiguous,
				Message: fmt.Sprintf("The following API versions were requested: %s. At most, only a single API version may be specified.", strings.Join(raw, ", ")),
			}
		}
		resolved = v
	}

	return d.supported(resolved, raw[0])
}

func (d *Dispatcher) supported(v Version, token string) (Version, error) {
	if _, ok := d.handlers[v]; !ok {
		return Version{}, &Error{
			Code:    CodeUnsupported,
			Message: fmt.Sprintf("The requested API version '%s' is not supported.", token),
		}
	}
	return v, nil
}

// ServeHTTP resolves the version and delegates to its handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if d.report {
		w.Header().Set(SupportedVersionsHeader, d.supportedList())
	}

	v, err := d.Resolve(r)
	if err != nil {
		writeVersionError(w, err)
		return
	}

	d.handlers[v].ServeHTTP(w, r.WithContext(WithVersion(r.Context(), v)))
}

func (d *Dispatcher) supportedList() string {
	versions := d.Versions()
	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}

func writeVersionError(w http.ResponseWriter, err error) {
	vErr, ok := err.(*Error)
	if !ok {
		vErr = &Error{Code: CodeInvalid, Message: err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]*Error{"error": vErr})
}
