package block

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Blocks is a campaign's ordered block sequence. It round-trips through a
// JSON envelope of the form {"kind": ..., "fields": {...}} and implements
// driver.Valuer / sql.Scanner so campaigns can store it in a JSONB column.
type Blocks []Block

type envelope struct {
	Kind   Kind            `json:"kind"`
	Fields json.RawMessage `json:"fields"`
}

func (bs Blocks) MarshalJSON() ([]byte, error) {
	out := make([]envelope, 0, len(bs))
	for _, b := range bs {
		fields, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		out = append(out, envelope{Kind: b.Kind(), Fields: fields})
	}
	return json.Marshal(out)
}

func (bs *Blocks) UnmarshalJSON(data []byte) error {
	var envs []envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return err
	}
	blocks := make(Blocks, 0, len(envs))
	for _, e := range envs {
		b, err := decode(e)
		if err != nil {
			return err
		}
		blocks = append(blocks, b)
	}
	*bs = blocks
	return nil
}

func decode(e envelope) (Block, error) {
	fields := e.Fields
	if len(fields) == 0 {
		fields = json.RawMessage("{}")
	}
	switch e.Kind {
	case KindHeader:
		var b Header
		return b, json.Unmarshal(fields, &b)
	case KindText:
		var b Text
		return b, json.Unmarshal(fields, &b)
	case KindImage:
		var b Image
		return b, json.Unmarshal(fields, &b)
	case KindButton:
		var b Button
		return b, json.Unmarshal(fields, &b)
	case KindFooter:
		var b Footer
		return b, json.Unmarshal(fields, &b)
	default:
		return nil, fmt.Errorf("unknown block kind %q", e.Kind)
	}
}

func (bs Blocks) Value() (driver.Value, error) {
	if bs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(bs)
}

func (bs *Blocks) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*bs = nil
		return nil
	case []byte:
		return bs.UnmarshalJSON(v)
	case string:
		return bs.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Blocks", src)
	}
}
