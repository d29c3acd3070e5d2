package model

import (
	"encoding/json"
	"fmt"
)

// envelope wraps one serialized object with its type tag so the polymorphic
// object set survives a JSON round trip.
type envelope struct {
	Type ObjectType      `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalObjects serializes a board's object set to JSON.
func MarshalObjects(objects []Object) ([]byte, error) {
	envs := make([]envelope, 0, len(objects))
	for _, o := range objects {
		data, err := json.Marshal(o)
		if err != nil {
			return nil, fmt.Errorf("marshal object %s: %w", o.ObjectID(), err)
		}
		envs = append(envs, envelope{Type: o.ObjectType(), Data: data})
	}
	return json.Marshal(envs)
}

// UnmarshalObjects restores an object set produced by MarshalObjects.
func UnmarshalObjects(data []byte) ([]Object, error) {
	var envs []envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("unmarshal object list: %w", err)
	}
	objects := make([]Object, 0, len(envs))
	for _, env := range envs {
		var o Object
		switch env.Type {
		case TypeStickyNote:
			o = &StickyNote{}
		case TypeShape:
			o = &Shape{}
		case TypeText:
			o = &TextBlock{}
		case TypeConnector:
			o = &Connector{}
		case TypeFrame:
			o = &Frame{}
		default:
			return nil, fmt.Errorf("unknown object type %q", env.Type)
		}
		if err := json.Unmarshal(env.Data, o); err != nil {
			return nil, fmt.Errorf("unmarshal %s object: %w", env.Type, err)
		}
		objects = append(objects, o)
	}
	return objects, nil
}
