package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ErrDocumentNotObject 文档不是 JSON 对象
var ErrDocumentNotObject = errors.New("document is not a json object")

// DocumentKind JSON 文档的顶层类型
type DocumentKind int

const (
	DocumentNull DocumentKind = iota
	DocumentBool
	DocumentNumber
	DocumentString
	DocumentArray
	DocumentObject
)

func (k DocumentKind) String() string {
	switch k {
	case DocumentBool:
		return "bool"
	case DocumentNumber:
		return "number"
	case DocumentString:
		return "string"
	case DocumentArray:
		return "array"
	case DocumentObject:
		return "object"
	default:
		return "null"
	}
}

var nullLiteral = []byte("null")

// Document 不透明 JSON 文档，存储层不解释其内容
// 零值等价于 JSON null
type Document struct {
	raw json.RawMessage
}

// ParseDocument 校验并压缩原始 JSON
func ParseDocument(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Document{}, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return Document{}, fmt.Errorf("invalid json document: %w", err)
	}
	if bytes.Equal(buf.Bytes(), nullLiteral) {
		return Document{}, nil
	}
	return Document{raw: buf.Bytes()}, nil
}

// MarshalDocument 将 Go 值编码为文档
func MarshalDocument(value interface{}) (Document, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return Document{}, err
	}
	return ParseDocument(payload)
}

// ObjectDocument 由字段集合构建对象文档
func ObjectDocument(fields map[string]json.RawMessage) (Document, error) {
	return MarshalDocument(fields)
}

// Kind 顶层 JSON 类型
func (d Document) Kind() DocumentKind {
	if len(d.raw) == 0 {
		return DocumentNull
	}
	switch d.raw[0] {
	case '{':
		return DocumentObject
	case '[':
		return DocumentArray
	case '"':
		return DocumentString
	case 't', 'f':
		return DocumentBool
	case 'n':
		return DocumentNull
	default:
		return DocumentNumber
	}
}

// IsNull 是否为 null
func (d Document) IsNull() bool {
	return d.Kind() == DocumentNull
}

// Bytes 返回序列化形式
func (d Document) Bytes() []byte {
	if len(d.raw) == 0 {
		return append([]byte(nil), nullLiteral...)
	}
	return append([]byte(nil), d.raw...)
}

func (d Document) String() string {
	return string(d.Bytes())
}

// Equal 比较两个文档的压缩形式
func (d Document) Equal(other Document) bool {
	return bytes.Equal(d.Bytes(), other.Bytes())
}

// Object 以字段集合形式读取对象文档
func (d Document) Object() (map[string]json.RawMessage, error) {
	if d.Kind() != DocumentObject {
		return nil, ErrDocumentNotObject
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(d.raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// MarshalJSON 实现 json.Marshaler
func (d Document) MarshalJSON() ([]byte, error) {
	return d.Bytes(), nil
}

// UnmarshalJSON 实现 json.Unmarshaler
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// Value 实现 driver.Valuer
func (d Document) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan 实现 sql.Scanner
func (d *Document) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Document{}
		return nil
	case []byte:
		return d.UnmarshalJSON(v)
	case string:
		return d.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("unsupported document source type %T", src)
	}
}

// GormDataType 通用数据类型
func (Document) GormDataType() string {
	return "json"
}

// GormDBDataType 按方言选择列类型
func (Document) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	default:
		return "TEXT"
	}
}
