package backend

import (
	"fmt"
	"net/url"
	"time"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/backend.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// Configuration of photoshare.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `BackendConfig`.
type BackendConfigMarshall struct {
	Server      *ServerConfigMarshall      `yaml:"server"`
	Database    string                     `yaml:"database"`
	Storage     *StorageConfigMarshall     `yaml:"storage"`
	AWS         *AWSConfigMarshall         `yaml:"aws,omitempty"`
	Rekognition *RekognitionConfigMarshall `yaml:"rekognition,omitempty"`
	Flickr      *FlickrConfigMarshall      `yaml:"flickr,omitempty"`
	Mail        *MailConfigMarshall        `yaml:"mail,omitempty"`
	Facebook    *FacebookConfigMarshall    `yaml:"facebook,omitempty"`
	Auth        *AuthConfigMarshall        `yaml:"auth,omitempty"`
	Events      *EventsConfigMarshall      `yaml:"events,omitempty"`
	Derivatives []DerivativeSizeMarshall   `yaml:"derivatives,omitempty"`
}

var _ Marshalled[*BackendConfig] = &BackendConfigMarshall{}

func (b *BackendConfigMarshall) trySeal(path string) *BackendConfig {
	derivatives := DefaultDerivatives()
	if len(b.Derivatives) != 0 {
		derivatives = make([]DerivativeSize, len(b.Derivatives))
		names := map[string]struct{}{}
		for i := range b.Derivatives {
			p := fmt.Sprintf("%s.derivatives[%d]", path, i)
			d := b.Derivatives[i].trySeal(p)
			if _, ok := names[d.Name]; ok {
				panic(fmt.Errorf("%s.name is duplicated: %s", p, d.Name))
			}
			names[d.Name] = struct{}{}
			derivatives[i] = d
		}
	}

	var mail *MailConfig
	if b.Mail != nil {
		mail = b.Mail.trySeal(path + ".mail")
	}
	var facebook *FacebookConfig
	if b.Facebook != nil {
		facebook = b.Facebook.trySeal(path + ".facebook")
	}
	var events *EventsConfig
	if b.Events != nil {
		events = b.Events.trySeal(path + ".events")
	}

	return &BackendConfig{
		server:      nonnil(b.Server, path+".server").trySeal(path + ".server"),
		database:    required(b.Database, path+".database"),
		storage:     nonnil(b.Storage, path+".storage").trySeal(path + ".storage"),
		aws:         orZero(b.AWS).trySeal(path + ".aws"),
		rekognition: orZero(b.Rekognition).trySeal(path + ".rekognition"),
		flickr:      orZero(b.Flickr).trySeal(path + ".flickr"),
		mail:        mail,
		facebook:    facebook,
		auth:        orZero(b.Auth).trySeal(path + ".auth"),
		events:      events,
		derivatives: derivatives,
	}
}

type ServerConfigMarshall struct {
	Port      int32  `yaml:"port"`
	PublicURL string `yaml:"publicUrl"`
}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	u, err := url.Parse(required(s.PublicURL, path+".publicUrl"))
	if err != nil {
		panic(fmt.Errorf("%s.publicUrl can not be parsed: %w", path, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		panic(fmt.Errorf("%s.publicUrl should be http or https: %s", path, s.PublicURL))
	}
	return &ServerConfig{
		port:      required(s.Port, path+".port"),
		publicURL: u,
	}
}

type StorageConfigMarshall struct {
	Kind string `yaml:"kind"`

	Bucket       string `yaml:"bucket,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	UsePathStyle bool   `yaml:"usePathStyle,omitempty"`
	URLTTL       string `yaml:"urlTTL,omitempty"`

	Root    string `yaml:"root,omitempty"`
	BaseURL string `yaml:"baseUrl,omitempty"`
}

func (s *StorageConfigMarshall) trySeal(path string) *StorageConfig {
	switch kind := StorageKind(required(s.Kind, path+".kind")); kind {
	case StorageS3:
		return &StorageConfig{
			kind:         kind,
			bucket:       required(s.Bucket, path+".bucket"),
			endpoint:     s.Endpoint,
			usePathStyle: s.UsePathStyle,
			urlTTL:       duration(s.URLTTL, 15*time.Minute, path+".urlTTL"),
		}
	case StorageLocal:
		return &StorageConfig{
			kind:    kind,
			root:    required(s.Root, path+".root"),
			baseURL: required(s.BaseURL, path+".baseUrl"),
		}
	default:
		panic(fmt.Errorf("%s.kind should be s3 or local: %s", path, s.Kind))
	}
}

type AWSConfigMarshall struct {
	Region string `yaml:"region,omitempty"`
}

func (a *AWSConfigMarshall) trySeal(string) *AWSConfig {
	return &AWSConfig{region: a.Region}
}

type RekognitionConfigMarshall struct {
	MinConfidence float32 `yaml:"minConfidence,omitempty"`
	MaxLabels     int32   `yaml:"maxLabels,omitempty"`
}

func (r *RekognitionConfigMarshall) trySeal(path string) *RekognitionConfig {
	conf := &RekognitionConfig{minConfidence: 80, maxLabels: 10}
	if r.MinConfidence != 0 {
		conf.minConfidence = r.MinConfidence
	}
	if conf.minConfidence < 0 || 100 < conf.minConfidence {
		panic(fmt.Errorf("%s.minConfidence should be in [0, 100]: %f", path, r.MinConfidence))
	}
	if r.MaxLabels != 0 {
		conf.maxLabels = r.MaxLabels
	}
	if conf.maxLabels < 0 {
		panic(fmt.Errorf("%s.maxLabels should be positive: %d", path, r.MaxLabels))
	}
	return conf
}

type FlickrConfigMarshall struct {
	APIKey            string  `yaml:"apiKey,omitempty"`
	Endpoint          string  `yaml:"endpoint,omitempty"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`
}

func (f *FlickrConfigMarshall) trySeal(path string) *FlickrConfig {
	conf := &FlickrConfig{
		apiKey:            f.APIKey,
		endpoint:          "https://api.flickr.com/services/rest/",
		requestsPerSecond: 1,
	}
	if f.Endpoint != "" {
		if _, err := url.Parse(f.Endpoint); err != nil {
			panic(fmt.Errorf("%s.endpoint can not be parsed: %w", path, err))
		}
		conf.endpoint = f.Endpoint
	}
	if f.RequestsPerSecond < 0 {
		panic(fmt.Errorf("%s.requestsPerSecond should be positive: %f", path, f.RequestsPerSecond))
	}
	if f.RequestsPerSecond != 0 {
		conf.requestsPerSecond = f.RequestsPerSecond
	}
	return conf
}

type MailConfigMarshall struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	From     string `yaml:"from"`
}

func (m *MailConfigMarshall) trySeal(path string) *MailConfig {
	port := m.Port
	if port == 0 {
		port = 587
	}
	return &MailConfig{
		host:     required(m.Host, path+".host"),
		port:     port,
		username: m.Username,
		password: m.Password,
		from:     required(m.From, path+".from"),
	}
}

type FacebookConfigMarshall struct {
	AppSecret string `yaml:"appSecret"`
}

func (f *FacebookConfigMarshall) trySeal(path string) *FacebookConfig {
	return &FacebookConfig{appSecret: required(f.AppSecret, path+".appSecret")}
}

type AuthConfigMarshall struct {
	TokenTTL string `yaml:"tokenTTL,omitempty"`
	Keychain string `yaml:"keychain,omitempty"`
	KeyTTL   string `yaml:"keyTTL,omitempty"`
}

func (a *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	keychain := a.Keychain
	if keychain == "" {
		keychain = "session"
	}
	conf := &AuthConfig{
		tokenTTL: duration(a.TokenTTL, 24*time.Hour, path+".tokenTTL"),
		keychain: keychain,
		keyTTL:   duration(a.KeyTTL, 7*24*time.Hour, path+".keyTTL"),
	}
	if conf.keyTTL <= conf.tokenTTL {
		panic(fmt.Errorf("%s.keyTTL should be longer than %s.tokenTTL", path, path))
	}
	return conf
}

type EventsConfigMarshall struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic,omitempty"`
}

func (e *EventsConfigMarshall) trySeal(path string) *EventsConfig {
	if len(e.Brokers) == 0 {
		panic(path + ".brokers is required")
	}
	topic := e.Topic
	if topic == "" {
		topic = "photoshare.events"
	}
	return &EventsConfig{
		brokers: append([]string{}, e.Brokers...),
		topic:   topic,
	}
}

type DerivativeSizeMarshall struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Mode   string `yaml:"mode,omitempty"`
}

func (d DerivativeSizeMarshall) trySeal(path string) DerivativeSize {
	mode := DerivativeMode(d.Mode)
	switch mode {
	case "":
		mode = Fit
	case Fit, Fill:
	default:
		panic(fmt.Errorf("%s.mode should be fit or fill: %s", path, d.Mode))
	}
	name := required(d.Name, path+".name")
	if name == "original" {
		panic(fmt.Errorf("%s.name should not be \"original\"", path))
	}
	w, h := required(d.Width, path+".width"), required(d.Height, path+".height")
	if w < 0 || h < 0 {
		panic(fmt.Errorf("%s should have positive width and height", path))
	}
	return DerivativeSize{Name: name, Width: w, Height: h, Mode: mode}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func orZero[T any](v *T) *T {
	if v == nil {
		return new(T)
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

func duration(s string, fallback time.Duration, path string) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(fmt.Errorf("%s can not be parsed: %w", path, err))
	}
	if d <= 0 {
		panic(fmt.Errorf("%s should be positive: %s", path, s))
	}
	return d
}
