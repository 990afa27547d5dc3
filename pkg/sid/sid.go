package sid

import (
	"fmt"
	"strconv"

	"github.com/sony/sonyflake"
)

type Sid struct {
	sf *sonyflake.Sonyflake
}

func NewSid() *Sid {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{})
	if sf == nil {
		panic("sonyflake not created")
	}
	return &Sid{sf}
}

// GenString returns a sortable unique id in base36.
func (s Sid) GenString() (string, error) {
	id, err := s.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return strconv.FormatUint(id, 36), nil
}

func (s Sid) GenUint64() (uint64, error) {
	return s.sf.NextID()
}
