package source

import (
	"bytes"
	"encoding/json"
)

// Entry is one raw draw as returned by the remote source. Fields are kept
// as strings; validation happens in draw.ParseEntry.
type Entry struct {
	DrawID   string `json:"lotteryDrawNum"`
	DrawDate string `json:"lotteryDrawTime"`
	Result   string `json:"lotteryDrawResult"`
}

// UnmarshalJSON decodes an entry without ever failing the page. Numbers are
// taken as their literal text. Any other ill-typed field is left empty, as
// is every field of an entry that is not an object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		*e = Entry{}
		return nil
	}
	*e = Entry{
		DrawID:   scalarText(fields["lotteryDrawNum"]),
		DrawDate: scalarText(fields["lotteryDrawTime"]),
		Result:   scalarText(fields["lotteryDrawResult"]),
	}
	return nil
}

func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}

// Page is a decoded page of entries, newest first.
type Page struct {
	Number  int
	Entries []Entry
	Pages   int // total pages reported by the source, 0 if unknown
	Total   int // total entries reported by the source, 0 if unknown
}

// response is the wire envelope.
type response struct {
	Success      *bool         `json:"success"`
	ErrorCode    string        `json:"errorCode"`
	ErrorMessage string        `json:"errorMessage"`
	Value        *responseBody `json:"value"`
}

type responseBody struct {
	List     []Entry `json:"list"`
	PageNo   int     `json:"pageNo"`
	PageSize int     `json:"pageSize"`
	Pages    int     `json:"pages"`
	Total    int     `json:"total"`
}
