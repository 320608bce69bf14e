package memoapi

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/ras0q/lazymemo/internal/timeline"
)

type User struct {
	ID       string
	Username string
}

func decodeMessage(d *jx.Decoder) (timeline.Message, error) {
	var m timeline.Message
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			m.ID = timeline.MessageID(id)
		case "body":
			body, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "body")
			}
			m.Body = body
		case "created_at":
			createdAt, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "created_at")
			}
			m.CreatedAt = createdAt
		default:
			return d.Skip()
		}

		return nil
	})
	if err != nil {
		return timeline.Message{}, errors.Wrap(err, "decode message")
	}

	return m, nil
}

// decodeMessageList decodes {"messages": [...]}. A missing or null list is
// an empty collection.
func decodeMessageList(data []byte) ([]timeline.Message, error) {
	messages := make([]timeline.Message, 0)
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if key != "messages" {
			return d.Skip()
		}

		if d.Next() == jx.Null {
			return d.Null()
		}

		return d.Arr(func(d *jx.Decoder) error {
			m, err := decodeMessage(d)
			if err != nil {
				return err
			}

			messages = append(messages, m)

			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode message list")
	}

	return messages, nil
}

func decodeSingleMessage(data []byte) (timeline.Message, error) {
	return decodeMessage(jx.DecodeBytes(data))
}

// decodeUser decodes {"user": {"id", "username"}}.
func decodeUser(data []byte) (User, error) {
	var u User
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if key != "user" {
			return d.Skip()
		}

		return d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				// ids are strings today but tolerate numbers
				if d.Next() == jx.Number {
					n, err := d.Num()
					if err != nil {
						return err
					}
					u.ID = n.String()
					return nil
				}

				id, err := d.Str()
				if err != nil {
					return err
				}
				u.ID = id
			case "username":
				name, err := d.Str()
				if err != nil {
					return err
				}
				u.Username = name
			default:
				return d.Skip()
			}

			return nil
		})
	})
	if err != nil {
		return User{}, errors.Wrap(err, "decode user")
	}

	return u, nil
}

// decodeStatus decodes {"status": "..."} from the health endpoint.
func decodeStatus(data []byte) (string, error) {
	var status string
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if key != "status" {
			return d.Skip()
		}

		s, err := d.Str()
		if err != nil {
			return err
		}
		status = s

		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "decode status")
	}

	return status, nil
}

// errorMessage extracts {"error": "..."} from data. It never fails: an
// unparseable, missing or blank message yields fallback.
func errorMessage(data []byte, fallback string) string {
	var msg string
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		if key != "error" || d.Next() != jx.String {
			return d.Skip()
		}

		s, err := d.Str()
		if err != nil {
			return err
		}
		msg = s

		return nil
	})
	if err != nil || strings.TrimSpace(msg) == "" {
		return fallback
	}

	return msg
}

func encodeBody(body string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("body")
	e.Str(body)
	e.ObjEnd()

	return e.Bytes()
}

func encodeCredentials(username, password string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("username")
	e.Str(username)
	e.FieldStart("password")
	e.Str(password)
	e.ObjEnd()

	return e.Bytes()
}
