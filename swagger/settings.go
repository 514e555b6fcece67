package swagger

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

// Path sort modes.
const (
	SortPathsUnsorted   = "unsorted"
	SortPathsPathMethod = "path-method"
	SortPathsOrdered    = "ordered"
)

// Tag sort modes.
const (
	SortTagsDefault = "default"
	SortTagsName    = "name"
)

// Grouping modes.
const (
	GroupingPath = "path"
	GroupingTags = "tags"
)

// Payload styles.
const (
	PayloadJSON = "json"
	PayloadForm = "form"
)

// Documentation UIs.
const (
	UISwagger = "swagger-ui"
	UIRapiDoc = "rapidoc"
	UIRedoc   = "redoc"
)

// Path replacement scopes.
const (
	ReplaceGroups    = "groups"
	ReplaceEndpoints = "endpoints"
	ReplaceAll       = "all"
)

// PathReplacement rewrites route paths with a regular expression before
// they are used for grouping, as document keys, or both.
type PathReplacement struct {
	Scope       string `yaml:"scope" validate:"oneof=groups endpoints all"`
	Pattern     string `yaml:"pattern" validate:"required,regexp"`
	Replacement string `yaml:"replacement"`
}

// DefaultCacheEntries bounds the response cache when MaxEntries is zero.
const DefaultCacheEntries = 64

// CacheSettings enables caching of rendered documents. A zero ExpiresIn
// disables the cache. MaxEntries caps the number of cached renditions, one
// per format, host, schemes and tags query; the oldest entry is evicted
// when the cap is reached.
type CacheSettings struct {
	ExpiresIn  time.Duration `yaml:"expiresIn"`
	MaxEntries int           `yaml:"maxEntries" validate:"gte=0"`
}

// Settings configures the plugin. Zero values are replaced by defaults when
// the plugin is created; see DefaultSettings.
type Settings struct {
	Info                Info                       `yaml:"info"`
	Host                string                     `yaml:"host" validate:"omitempty,excludes=/"`
	BasePath            string                     `yaml:"basePath" validate:"startswith=/"`
	Schemes             []string                   `yaml:"schemes" validate:"omitempty,dive,oneof=http https ws wss"`
	Consumes            []string                   `yaml:"consumes"`
	Produces            []string                   `yaml:"produces"`
	Tags                []Tag                      `yaml:"tags" validate:"dive"`
	SecurityDefinitions map[string]*SecurityScheme `yaml:"securityDefinitions" validate:"dive"`
	Security            []SecurityRequirement      `yaml:"security"`
	ExternalDocs        *ExternalDocs              `yaml:"externalDocs"`

	// JSONPath serves the document as JSON (default: "/swagger.json").
	JSONPath string `yaml:"jsonPath" validate:"startswith=/"`
	// YAMLPath serves the document as YAML when set.
	YAMLPath string `yaml:"yamlPath" validate:"omitempty,startswith=/"`
	// DocumentationPath serves the interactive UI (default: "/documentation").
	DocumentationPath        string         `yaml:"documentationPath" validate:"startswith=/"`
	DisableDocumentationPage bool           `yaml:"disableDocumentationPage"`
	UI                       string         `yaml:"ui" validate:"oneof=swagger-ui rapidoc redoc"`
	SwaggerUIConfig          map[string]any `yaml:"swaggerUIConfig"`

	// RouteTag marks routes to document (default: "api"). RouteTagFilter,
	// when set, replaces the tag check.
	RouteTag       string                  `yaml:"routeTag" validate:"required"`
	RouteTagFilter func(tags []string) bool `yaml:"-" validate:"-"`

	Grouping string `yaml:"grouping" validate:"oneof=path tags"`
	// TagsGroupingFilter selects the tags used as groups when grouping by
	// tags. The default drops RouteTag.
	TagsGroupingFilter func(tag string) bool `yaml:"-" validate:"-"`
	PathPrefixSize     int                   `yaml:"pathPrefixSize" validate:"gte=1"`
	PathReplacements   []PathReplacement     `yaml:"pathReplacements" validate:"dive"`

	SortTags    string `yaml:"sortTags" validate:"oneof=default name"`
	SortPaths   string `yaml:"sortPaths" validate:"oneof=unsorted path-method ordered"`
	PayloadType string `yaml:"payloadType" validate:"oneof=json form"`

	// ReuseDefinitions collapses structurally equal models (default: true).
	ReuseDefinitions *bool `yaml:"reuseDefinitions"`
	// XProperties emits x-alternatives and x-constraint (default: true).
	XProperties *bool `yaml:"xProperties"`

	Deref bool           `yaml:"deref"`
	Debug bool           `yaml:"debug"`
	Cache *CacheSettings `yaml:"cache"`

	Logger     *slog.Logger         `yaml:"-" validate:"-"`
	Registerer prometheus.Registerer `yaml:"-" validate:"-"`
}

// Bool returns a pointer to v, for the optional boolean settings.
func Bool(v bool) *bool {
	return &v
}

// DefaultSettings returns the settings used for every zero field.
func DefaultSettings() Settings {
	return Settings{
		Info: Info{
			Title:   "API documentation",
			Version: "0.0.1",
		},
		BasePath:          "/",
		JSONPath:          "/swagger.json",
		DocumentationPath: "/documentation",
		UI:                UISwagger,
		RouteTag:          "api",
		Grouping:          GroupingPath,
		PathPrefixSize:    1,
		SortTags:          SortTagsDefault,
		SortPaths:         SortPathsUnsorted,
		PayloadType:       PayloadJSON,
		ReuseDefinitions:  Bool(true),
		XProperties:       Bool(true),
	}
}

// LoadSettings decodes YAML or JSON settings. Defaults are applied when the
// plugin is created.
func LoadSettings(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, &ConfigError{Field: "settings", Reason: err.Error()}
	}
	return s, nil
}

// withDefaults fills every zero field from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()

	if s.Info.Title == "" {
		s.Info.Title = d.Info.Title
	}
	if s.Info.Version == "" {
		s.Info.Version = d.Info.Version
	}
	if s.BasePath == "" {
		s.BasePath = d.BasePath
	}
	if s.JSONPath == "" {
		s.JSONPath = d.JSONPath
	}
	if s.DocumentationPath == "" {
		s.DocumentationPath = d.DocumentationPath
	}
	if s.UI == "" {
		s.UI = d.UI
	}
	if s.RouteTag == "" {
		s.RouteTag = d.RouteTag
	}
	if s.Grouping == "" {
		s.Grouping = d.Grouping
	}
	if s.PathPrefixSize == 0 {
		s.PathPrefixSize = d.PathPrefixSize
	}
	if s.SortTags == "" {
		s.SortTags = d.SortTags
	}
	if s.SortPaths == "" {
		s.SortPaths = d.SortPaths
	}
	if s.PayloadType == "" {
		s.PayloadType = d.PayloadType
	}
	if s.ReuseDefinitions == nil {
		s.ReuseDefinitions = d.ReuseDefinitions
	}
	if s.XProperties == nil {
		s.XProperties = d.XProperties
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	if len(s.PathReplacements) > 0 {
		replacements := make([]PathReplacement, len(s.PathReplacements))
		for i, r := range s.PathReplacements {
			if r.Scope == "" {
				r.Scope = ReplaceGroups
			}
			replacements[i] = r
		}
		s.PathReplacements = replacements
	}

	return s
}

func (s Settings) reuseDefinitions() bool {
	return s.ReuseDefinitions == nil || *s.ReuseDefinitions
}

func (s Settings) xProperties() bool {
	return s.XProperties == nil || *s.XProperties
}

func (s Settings) cacheEntries() int {
	if s.Cache == nil || s.Cache.MaxEntries <= 0 {
		return DefaultCacheEntries
	}
	return s.Cache.MaxEntries
}

func (s Settings) cacheTTL() time.Duration {
	if s.Cache == nil || s.Cache.ExpiresIn < 0 {
		return 0
	}
	return s.Cache.ExpiresIn
}

var settingsValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("regexp", func(fl validator.FieldLevel) bool {
		_, err := regexp.Compile(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("swagger: register regexp validation: %v", err))
	}

	return v
})

// validate checks s after defaults were applied. The first failing field
// is reported as a *ConfigError.
func (s Settings) validate() error {
	err := settingsValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Field: "settings", Reason: err.Error()}
	}

	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	return &ConfigError{Field: field, Reason: validationReason(fe)}
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	case "regexp":
		return "is not a valid regular expression"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "gte":
		return "must be at least " + fe.Param()
	case "excludes":
		return fmt.Sprintf("must not contain %q", fe.Param())
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
