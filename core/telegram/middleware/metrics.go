package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	ctxKeyMessages = "messages"
	ctxKeyKeyboard = "kb"
)

// metricsContext wraps tele.Context to count outbound messages and record
// keyboard usage for the handler summary line.
type metricsContext struct{ tele.Context }

func (m metricsContext) record(opts []interface{}) {
	n := 0
	if v, ok := m.Get(ctxKeyMessages).(int); ok {
		n = v
	}
	m.Set(ctxKeyMessages, n+1)
	if hasKeyboard(opts) {
		m.Set(ctxKeyKeyboard, true)
	}
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m metricsContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.record(opts)
	}
	return err
}

func (m metricsContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.record(opts)
	}
	return err
}

// MessageMetricsMiddleware instruments the context so GetCounters can report
// how many messages a handler produced.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(ctxKeyMessages, 0)
		c.Set(ctxKeyKeyboard, false)
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads the message count and keyboard flag off the context.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get(ctxKeyMessages).(int)
	kb, _ := c.Get(ctxKeyKeyboard).(bool)
	return msgs, kb
}
