package backend

import (
	"net/url"
	"time"
)

// Configuration of photoshare processes.
//
// To get `BackendConfig` instance, use `TrySeal(*BackendConfigMarshall)` or `Unmarshal`.
type BackendConfig struct {
	server      *ServerConfig
	database    string
	storage     *StorageConfig
	aws         *AWSConfig
	rekognition *RekognitionConfig
	flickr      *FlickrConfig
	mail        *MailConfig
	facebook    *FacebookConfig
	auth        *AuthConfig
	events      *EventsConfig
	derivatives []DerivativeSize
}

func (c *BackendConfig) Server() *ServerConfig {
	return c.server
}

// Postgres connection URI.
func (c *BackendConfig) Database() string {
	return c.database
}

func (c *BackendConfig) Storage() *StorageConfig {
	return c.storage
}

func (c *BackendConfig) AWS() *AWSConfig {
	return c.aws
}

func (c *BackendConfig) Rekognition() *RekognitionConfig {
	return c.rekognition
}

func (c *BackendConfig) Flickr() *FlickrConfig {
	return c.flickr
}

// Mail config. nil when mail is not configured.
func (c *BackendConfig) Mail() *MailConfig {
	return c.mail
}

// Facebook config. nil when Facebook integration is not configured.
func (c *BackendConfig) Facebook() *FacebookConfig {
	return c.facebook
}

func (c *BackendConfig) Auth() *AuthConfig {
	return c.auth
}

// Events config. nil when events are not published.
func (c *BackendConfig) Events() *EventsConfig {
	return c.events
}

// Sizes of derivative images.
func (c *BackendConfig) Derivatives() []DerivativeSize {
	return append([]DerivativeSize{}, c.derivatives...)
}

type ServerConfig struct {
	port      int32
	publicURL *url.URL
}

func (s *ServerConfig) Port() int32 {
	return s.port
}

// URL where users reach photod. It is used for links in mails and feeds.
func (s *ServerConfig) PublicURL() *url.URL {
	u := *s.publicURL
	return &u
}

type StorageKind string

const (
	StorageS3    StorageKind = "s3"
	StorageLocal StorageKind = "local"
)

type StorageConfig struct {
	kind StorageKind

	// for s3
	bucket       string
	endpoint     string
	usePathStyle bool
	urlTTL       time.Duration

	// for local
	root    string
	baseURL string
}

func (s *StorageConfig) Kind() StorageKind {
	return s.kind
}

// S3 bucket name. Only for s3.
func (s *StorageConfig) Bucket() string {
	return s.bucket
}

// Custom S3 endpoint, like MinIO. Empty for AWS S3.
func (s *StorageConfig) Endpoint() string {
	return s.endpoint
}

func (s *StorageConfig) UsePathStyle() bool {
	return s.usePathStyle
}

// Lifetime of presigned URLs. Only for s3.
func (s *StorageConfig) URLTTL() time.Duration {
	return s.urlTTL
}

// Root directory of objects. Only for local.
func (s *StorageConfig) Root() string {
	return s.root
}

// URL prefix where objects are served. Only for local.
func (s *StorageConfig) BaseURL() string {
	return s.baseURL
}

type AWSConfig struct {
	region string
}

// AWS region. Empty means "follow the SDK's default chain".
func (a *AWSConfig) Region() string {
	return a.region
}

type RekognitionConfig struct {
	minConfidence float32
	maxLabels     int32
}

func (r *RekognitionConfig) MinConfidence() float32 {
	return r.minConfidence
}

func (r *RekognitionConfig) MaxLabels() int32 {
	return r.maxLabels
}

type FlickrConfig struct {
	apiKey            string
	endpoint          string
	requestsPerSecond float64
}

func (f *FlickrConfig) APIKey() string {
	return f.apiKey
}

func (f *FlickrConfig) Endpoint() string {
	return f.endpoint
}

func (f *FlickrConfig) RequestsPerSecond() float64 {
	return f.requestsPerSecond
}

type MailConfig struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (m *MailConfig) Host() string {
	return m.host
}

func (m *MailConfig) Port() int {
	return m.port
}

func (m *MailConfig) Username() string {
	return m.username
}

func (m *MailConfig) Password() string {
	return m.password
}

func (m *MailConfig) From() string {
	return m.from
}

type FacebookConfig struct {
	appSecret string
}

func (f *FacebookConfig) AppSecret() string {
	return f.appSecret
}

type AuthConfig struct {
	tokenTTL time.Duration
	keychain string
	keyTTL   time.Duration
}

// Lifetime of session tokens.
func (a *AuthConfig) TokenTTL() time.Duration {
	return a.tokenTTL
}

// Name of keychain holding signing keys.
func (a *AuthConfig) Keychain() string {
	return a.keychain
}

// Lifetime of signing keys. It should be longer than TokenTTL.
func (a *AuthConfig) KeyTTL() time.Duration {
	return a.keyTTL
}

type EventsConfig struct {
	brokers []string
	topic   string
}

func (e *EventsConfig) Brokers() []string {
	return append([]string{}, e.brokers...)
}

func (e *EventsConfig) Topic() string {
	return e.topic
}

type DerivativeMode string

const (
	// resize to fit in the box, keeping aspect ratio
	Fit DerivativeMode = "fit"

	// crop and resize to fill the box
	Fill DerivativeMode = "fill"
)

type DerivativeSize struct {
	Name   string
	Width  int
	Height int
	Mode   DerivativeMode
}

func DefaultDerivatives() []DerivativeSize {
	return []DerivativeSize{
		{Name: "thumb", Width: 256, Height: 256, Mode: Fit},
		{Name: "small", Width: 640, Height: 640, Mode: Fit},
		{Name: "medium", Width: 1280, Height: 1280, Mode: Fit},
		{Name: "large", Width: 2048, Height: 2048, Mode: Fit},
		{Name: "square", Width: 256, Height: 256, Mode: Fill},
	}
}
