package hashid

import (
	"fmt"
	"strings"

	hashids "github.com/speps/go-hashids/v2"
)

type Type struct {
	prefix string
	h      *hashids.HashID
}

// NewType 创建带前缀的HashID类型，salt按业务域区分
func NewType(prefix, salt string, minLength int) *Type {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength

	h, err := hashids.NewWithData(data)
	if err != nil {
		panic(err)
	}

	return &Type{prefix: prefix, h: h}
}

func Encode(t *Type, id uint) string {
	encoded, err := t.h.EncodeInt64([]int64{int64(id)})
	if err != nil {
		return ""
	}
	return t.prefix + encoded
}

func Decode(t *Type, hashID string) (uint, error) {
	if !strings.HasPrefix(hashID, t.prefix) {
		return 0, fmt.Errorf("invalid hash id: %s", hashID)
	}

	ids, err := t.h.DecodeInt64WithError(strings.TrimPrefix(hashID, t.prefix))
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 || ids[0] < 0 {
		return 0, fmt.Errorf("invalid hash id: %s", hashID)
	}

	return uint(ids[0]), nil
}
