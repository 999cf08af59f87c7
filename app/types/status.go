package types

type Status int

const (
	StatusOK                  Status = 200
	StatusCreated             Status = 201
	StatusBadRequest          Status = 400
	StatusNotFound            Status = 404
	StatusInternalServerError Status = 500
)

var statusReasons = map[Status]string{
	StatusOK:                  "OK",
	StatusCreated:             "Created",
	StatusBadRequest:          "Bad request",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "Internal Server Error",
}

// Reason returns the reason phrase for the exact code, or "Unknown".
func (s Status) Reason() string {
	if r, ok := statusReasons[s]; ok {
		return r
	}
	return "Unknown"
}

// Encodings are the content codings the server advertises and applies.
// deflate and br are deliberately absent: advertising a coding that is never
// applied would label an identity body as compressed.
var Encodings = []string{"gzip"}
