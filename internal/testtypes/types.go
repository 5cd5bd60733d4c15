package testtypes

import (
	"context"
	"reflect"
)

var (
	TypeSender              = reflect.TypeFor[Sender]()
	TypeEmailSender         = reflect.TypeFor[*EmailSender]()
	TypeNotificationService = reflect.TypeFor[*NotificationService]()

	TypeDatabase    = reflect.TypeFor[Database]()
	TypeDataService = reflect.TypeFor[*DataService]()
	TypeLogger      = reflect.TypeFor[Logger]()
)

// Sender sends notifications.
type Sender interface {
	Send(message string) string
}

type EmailSender struct {
	From string
}

func NewEmailSender() *EmailSender {
	return &EmailSender{From: "noreply@example.com"}
}

func (s *EmailSender) Send(message string) string { return "email: " + message }

type SMSSender struct{}

func NewSMSSender() *SMSSender {
	return &SMSSender{}
}

func (*SMSSender) Send(message string) string { return "sms: " + message }

type NotificationService struct {
	Senders []Sender
}

func NewNotificationService(senders []Sender) *NotificationService {
	return &NotificationService{Senders: senders}
}

// Database executes queries.
type Database interface {
	Driver() string
}

type MySQL struct{}

func (*MySQL) Driver() string { return "mysql" }

type PostgreSQL struct{}

func (*PostgreSQL) Driver() string { return "postgresql" }

// Cache is used as an optional dependency.
type Cache interface {
	Get(key string) string
}

type RedisCache struct{}

func (*RedisCache) Get(key string) string { return "redis:" + key }

// Logger is used as an injected property.
type Logger interface {
	Log(message string)
}

type MemoryLogger struct {
	Messages []string
}

func (l *MemoryLogger) Log(message string) {
	l.Messages = append(l.Messages, message)
}

// DataService has a required dependency, an optional dependency and an injected property.
type DataService struct {
	Logger Logger `inject:""`

	DB    Database
	Cache Cache
}

func NewDataService(db Database, cache Cache) *DataService {
	return &DataService{DB: db, Cache: cache}
}

// Repository depends on the request context and the scope it was created in.
type Repository struct {
	Ctx   context.Context
	Scope any
}
