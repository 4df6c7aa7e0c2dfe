package api

import (
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/floatchat/internal/errors"
	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/models"
)

// ParseChatReply normalizes a backend chat payload. Both the flat shape
// {"output": ...} and the wrapped shape {"data": {"output": ...}} are
// accepted; the wrapped payload wins when "data" is present and non-null.
// Missing fields are left empty. Only a body that is not JSON is an error.
func ParseChatReply(body []byte) (*models.ChatReply, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", "")
	}

	payload := unwrap(gjson.ParseBytes(body))

	return &models.ChatReply{
		Output:    textField(payload.Get(PathOutput)),
		TableData: recordsField(payload.Get(PathTableData), PathTableData),
		GeoData:   recordsField(payload.Get(PathGeoData), PathGeoData),
		SQLQuery:  textField(payload.Get(PathSQLQuery)),
	}, nil
}

func unwrap(root gjson.Result) gjson.Result {
	if !root.IsObject() {
		return root
	}
	if inner := root.Get(PathWrapped); inner.Exists() && inner.Type != gjson.Null {
		return inner
	}
	return root
}

// textField reads a field as display text. null, false and absent are empty.
func textField(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number, gjson.True:
		return r.Raw
	case gjson.JSON:
		return r.Raw
	default:
		return ""
	}
}

// recordsField reads an array of objects. A present array yields a non-nil
// slice even when empty; anything else yields nil.
func recordsField(r gjson.Result, path string) []models.Record {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if !r.IsArray() {
		logging.Logger().Debug("ignoring non-array result field", "field", path, "type", r.Type.String())
		return nil
	}

	records := make([]models.Record, 0)
	skipped := 0
	r.ForEach(func(_, row gjson.Result) bool {
		if !row.IsObject() {
			skipped++
			return true
		}
		var rec models.Record
		row.ForEach(func(key, value gjson.Result) bool {
			rec = append(rec, models.Field{Key: key.String(), Value: value.Value()})
			return true
		})
		records = append(records, rec)
		return true
	})

	if skipped > 0 {
		logging.Logger().Debug("skipped non-object rows", "field", path, "count", skipped)
	}
	return records
}
