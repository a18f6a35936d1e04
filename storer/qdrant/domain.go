package qdrant

import (
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const (
	payloadId       = "record_id"
	payloadDocument = "document"
	payloadMetadata = "metadata"
)

// pointId maps an arbitrary record id onto the UUID space qdrant accepts.
func pointId(id string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceURL, []byte(id)).String())
}

func convertValue(v *qdrant.Value) any {
	switch val := v.GetKind().(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		out := make([]any, len(val.ListValue.GetValues()))
		for i, lv := range val.ListValue.GetValues() {
			out[i] = convertValue(lv)
		}
		return out
	case *qdrant.Value_StructValue:
		out := make(map[string]any, len(val.StructValue.GetFields()))
		for k, nv := range val.StructValue.GetFields() {
			out[k] = convertValue(nv)
		}
		return out
	}
	return nil
}

func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = convertValue(v)
	}
	return out
}
