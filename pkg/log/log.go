package log

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fields é um alias para logrus.Fields
type Fields logrus.Fields

// Logger é a interface usada pela API; encapsula uma entry do logrus
type Logger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

type contextKey string

// CorrelationIDKey chave do ID de correlação no contexto da requisição
const CorrelationIDKey contextKey = "correlation_id"

const (
	correlationIDField = "correlation_id"
	analysisIDField    = "analysis_id"
	maxCorrelationID   = 64
)

type logger struct {
	*logrus.Entry
}

// L logger global; Configure o recria com o nível definido
var L Logger = &logger{logrus.NewEntry(logrus.StandardLogger())}

// IsDevelopment retorna verdadeiro se estamos em ambiente de desenvolvimento
func IsDevelopment() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "development" || env == "dev"
}

// Configure define formato e nível do logger global; nível inválido cai para info
func Configure(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		PadLevelText:    true,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	L = &logger{logrus.NewEntry(logrus.StandardLogger())}
}

// relevantFields campos mantidos nos logs de desenvolvimento
var relevantFields = map[string]bool{
	correlationIDField: true,
	"method":           true,
	"path":             true,
	"status_code":      true,
	"duration_ms":      true,
	"error":            true,
	"group":            true,
}

// relevantPrefixes prefixos de campos mantidos nos logs de desenvolvimento
var relevantPrefixes = []string{"user_", "analysis_", "shop"}

func isRelevant(key string) bool {
	if relevantFields[key] {
		return true
	}
	for _, prefix := range relevantPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// WithField em desenvolvimento descarta campos fora da lista de relevantes
func (l *logger) WithField(key string, value interface{}) Logger {
	if IsDevelopment() && !isRelevant(key) {
		return l
	}
	return &logger{l.Entry.WithField(key, value)}
}

func (l *logger) WithFields(fields Fields) Logger {
	kept := logrus.Fields(fields)
	if IsDevelopment() {
		kept = make(logrus.Fields, len(fields))
		for k, v := range fields {
			if isRelevant(k) {
				kept[k] = v
			}
		}
		if len(kept) == 0 {
			return l
		}
	}
	return &logger{l.Entry.WithFields(kept)}
}

func (l *logger) WithError(err error) Logger {
	return &logger{l.Entry.WithError(err)}
}

// WithContext inclui o ID de correlação e o ID da análise, quando presentes
func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	var result Logger = l
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		result = result.WithField(correlationIDField, correlationID)
	}
	if analysisID, ok := ctx.Value(analysisIDKey).(string); ok {
		result = result.WithField(analysisIDField, analysisID)
	}
	return result
}

// WithCorrelationID reaproveita o ID recebido do cliente (X-Correlation-ID) ou gera um novo
func WithCorrelationID(ctx context.Context, incoming string) (context.Context, string) {
	correlationID := strings.TrimSpace(incoming)
	if correlationID == "" || len(correlationID) > maxCorrelationID {
		correlationID = uuid.New().String()
	}
	return context.WithValue(ctx, CorrelationIDKey, correlationID), correlationID
}

func GetCorrelationID(ctx context.Context) string {
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}
	return ""
}

const analysisIDKey contextKey = "analysis_id"

// WithAnalysisID marca o contexto com o ID da análise em andamento
func WithAnalysisID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, analysisIDKey, id)
}

// ForContext logger com os IDs de correlação e de análise do contexto
func ForContext(ctx context.Context) Logger {
	return L.WithContext(ctx)
}
