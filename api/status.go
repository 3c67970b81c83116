package api

import (
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ServiceStatus reports the health of the API. Unlike the other enums it has
// no fallback: an unrecognized value is an invalid response.
type ServiceStatus uint8

const (
	// StatusOK means everything is alright.
	StatusOK ServiceStatus = iota + 1
	// StatusPartial means the service is seeing partial disconnects or issues.
	StatusPartial
	// StatusRebooting is sent on server startup.
	StatusRebooting
	// StatusFatal is sent on an error that needs a human.
	StatusFatal
)

var statusTags = newTagSet(map[ServiceStatus]string{
	StatusOK:        "ok",
	StatusPartial:   "partial",
	StatusRebooting: "rebooting",
	StatusFatal:     "fatal",
})

func ParseServiceStatus(s string) (ServiceStatus, error) {
	if st, ok := statusTags.lookup(s); ok {
		return st, nil
	}
	return 0, invalid(errors.Errorf("unknown service status %q", s))
}

func (s ServiceStatus) String() string {
	if t := statusTags.tag(s); t != "" {
		return t
	}
	return "ServiceStatus(invalid)"
}

func (s *ServiceStatus) UnmarshalJSON(data []byte) error {
	tag, err := unmarshalTag("status", data)
	if err != nil {
		return invalid(err)
	}
	st, err := ParseServiceStatus(tag)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s ServiceStatus) MarshalJSON() ([]byte, error) {
	t := statusTags.tag(s)
	if t == "" {
		return nil, errors.Errorf("cannot marshal invalid service status %d", uint8(s))
	}
	return json.Marshal(t)
}
