package alarm

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// Field names used in the Struct payloads.
const (
	fieldLabel      = "label"
	fieldDueTime    = "due_time"
	fieldActor      = "actor"
	fieldID         = "id"
	fieldAdmittedAt = "admitted_at"

	fieldCapacity            = "capacity"
	fieldQueued              = "queued"
	fieldFreeProducerPermits = "free_producer_permits"
	fieldFreeConsumerPermits = "free_consumer_permits"
	fieldAdmitted            = "admitted"
	fieldRejected            = "rejected"
	fieldFired               = "fired"
	fieldCancelled           = "cancelled"
)

var (
	// ErrMalformedMessage is returned when a payload misses a field or has a field of the wrong shape.
	ErrMalformedMessage = errors.New("malformed message")
	// errNilMessage is returned when a nil payload is decoded.
	errNilMessage = errors.New("message is required")
)

// EncodeSubmitRequest builds the Submit request payload.
func EncodeSubmitRequest(a domain.Alarm, actor string) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldLabel:   a.Label,
		fieldDueTime: a.DueTime.UTC().Format(time.RFC3339Nano),
	}

	if actor != "" {
		fields[fieldActor] = actor
	}

	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode submit request: %w", err)
	}

	return req, nil
}

// DecodeSubmitRequest extracts the alarm and the optional actor from a Submit payload.
// It checks the payload shape only; alarm validation is left to the scheduler.
func DecodeSubmitRequest(req *structpb.Struct) (domain.Alarm, string, error) {
	if req == nil {
		return domain.Alarm{}, "", errNilMessage
	}

	label, err := stringField(req, fieldLabel)
	if err != nil {
		return domain.Alarm{}, "", err
	}

	dueTime, err := timeField(req, fieldDueTime)
	if err != nil {
		return domain.Alarm{}, "", err
	}

	actor, _ := stringField(req, fieldActor)

	return domain.New(dueTime, label), actor, nil
}

// EncodeAdmission builds the Submit response payload.
func EncodeAdmission(adm scheduler.Admission) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(map[string]any{
		fieldID:         adm.ID.String(),
		fieldLabel:      adm.Alarm.Label,
		fieldDueTime:    adm.Alarm.DueTime.UTC().Format(time.RFC3339Nano),
		fieldAdmittedAt: adm.AdmittedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("encode admission: %w", err)
	}

	return resp, nil
}

// DecodeAdmission parses a Submit response payload.
func DecodeAdmission(resp *structpb.Struct) (scheduler.Admission, error) {
	if resp == nil {
		return scheduler.Admission{}, errNilMessage
	}

	rawID, err := stringField(resp, fieldID)
	if err != nil {
		return scheduler.Admission{}, err
	}

	id, err := ulid.ParseStrict(rawID)
	if err != nil {
		return scheduler.Admission{}, fmt.Errorf("%w: field %q: %w", ErrMalformedMessage, fieldID, err)
	}

	label, err := stringField(resp, fieldLabel)
	if err != nil {
		return scheduler.Admission{}, err
	}

	dueTime, err := timeField(resp, fieldDueTime)
	if err != nil {
		return scheduler.Admission{}, err
	}

	admittedAt, err := timeField(resp, fieldAdmittedAt)
	if err != nil {
		return scheduler.Admission{}, err
	}

	return scheduler.Admission{
		ID:         id,
		Alarm:      domain.New(dueTime, label),
		AdmittedAt: admittedAt,
	}, nil
}

// EncodeStats builds the Stats response payload.
func EncodeStats(stats scheduler.Stats) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(map[string]any{
		fieldCapacity:            stats.Capacity,
		fieldQueued:              stats.Queued,
		fieldFreeProducerPermits: stats.FreeProducerPermits,
		fieldFreeConsumerPermits: stats.FreeConsumerPermits,
		fieldAdmitted:            stats.Admitted,
		fieldRejected:            stats.Rejected,
		fieldFired:               stats.Fired,
		fieldCancelled:           stats.Cancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}

	return resp, nil
}

// DecodeStats parses a Stats response payload. Missing counters read as zero.
func DecodeStats(resp *structpb.Struct) (scheduler.Stats, error) {
	if resp == nil {
		return scheduler.Stats{}, errNilMessage
	}

	number := func(name string) float64 {
		return resp.GetFields()[name].GetNumberValue()
	}

	return scheduler.Stats{
		Capacity:            int(number(fieldCapacity)),
		Queued:              int(number(fieldQueued)),
		FreeProducerPermits: int(number(fieldFreeProducerPermits)),
		FreeConsumerPermits: int(number(fieldFreeConsumerPermits)),
		Admitted:            uint64(number(fieldAdmitted)),
		Rejected:            uint64(number(fieldRejected)),
		Fired:               uint64(number(fieldFired)),
		Cancelled:           uint64(number(fieldCancelled)),
	}, nil
}

// stringField returns a string field or ErrMalformedMessage.
func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", fmt.Errorf("%w: field %q is missing", ErrMalformedMessage, name)
	}

	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", ErrMalformedMessage, name)
	}

	return str.StringValue, nil
}

// timeField parses an RFC 3339 string field.
func timeField(s *structpb.Struct, name string) (time.Time, error) {
	raw, err := stringField(s, name)
	if err != nil {
		return time.Time{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: field %q: %w", ErrMalformedMessage, name, err)
	}

	return ts, nil
}
