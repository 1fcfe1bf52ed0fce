package shared

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/shm-admin/backend/internal/http/response"
	"github.com/shm-admin/backend/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	// ErrInvalidBody 请求体不是合法 JSON
	ErrInvalidBody = errors.New("invalid json body")
	// ErrBodyTooLarge 请求体超过上限
	ErrBodyTooLarge = errors.New("request body too large")
)

// ReadDocument 读取整个请求体为 JSON 文档，空请求体返回 null 文档
func ReadDocument(c *gin.Context) (models.Document, error) {
	raw, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return models.Document{}, ErrBodyTooLarge
		}
		return models.Document{}, errors.Join(ErrInvalidBody, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.Document{}, nil
	}
	doc, err := models.ParseDocument(raw)
	if err != nil {
		return models.Document{}, errors.Join(ErrInvalidBody, err)
	}
	return doc, nil
}

// ReadObjectFields 读取对象请求体的顶层字段，空请求体返回空集合
func ReadObjectFields(c *gin.Context) (map[string]models.Document, error) {
	doc, err := ReadDocument(c)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]models.Document)
	if doc.IsNull() {
		return fields, nil
	}
	object, err := doc.Object()
	if err != nil {
		return nil, errors.Join(ErrInvalidBody, err)
	}
	for name, value := range object {
		field, err := models.ParseDocument(value)
		if err != nil {
			return nil, errors.Join(ErrInvalidBody, err)
		}
		fields[name] = field
	}
	return fields, nil
}

// LimitBody 限制后续读取的请求体大小，limit <= 0 时不限制
func LimitBody(c *gin.Context, limit int64) {
	if limit <= 0 || c.Request == nil || c.Request.Body == nil {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}

// BodyErrorStatus 请求体读取错误对应的状态码与消息
func BodyErrorStatus(err error) (int, string) {
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge, response.MsgBodyTooLarge
	}
	return http.StatusBadRequest, response.MsgInvalidBody
}
