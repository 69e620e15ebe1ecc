package logger

import "sync"

// Entry is one captured log call.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// Capture records every log call so tests can assert on emitted warnings
// without parsing console output.
type Capture struct {
	mu      sync.Mutex
	entries []Entry
	base    map[string]interface{}
}

func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(c.base)+len(fields))
	for k, v := range c.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Level: level, Message: msg, Fields: merged})
}

func (c *Capture) Debug(msg string, fields map[string]interface{}) { c.log("debug", msg, fields) }
func (c *Capture) Info(msg string, fields map[string]interface{})  { c.log("info", msg, fields) }
func (c *Capture) Warn(msg string, fields map[string]interface{})  { c.log("warn", msg, fields) }
func (c *Capture) Error(msg string, fields map[string]interface{}) { c.log("error", msg, fields) }

func (c *Capture) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(c.base)+len(fields))
	for k, v := range c.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	// Child shares the entry slice with the parent so assertions see all calls.
	return &captureChild{parent: c, base: merged}
}

func (c *Capture) WithError(err error) Logger {
	return c.WithFields(map[string]interface{}{"error": err})
}

// Entries returns a copy of everything logged so far.
func (c *Capture) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// HasMessage reports whether any entry at the given level contains msg.
func (c *Capture) HasMessage(level, msg string) bool {
	for _, e := range c.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}

type captureChild struct {
	parent *Capture
	base   map[string]interface{}
}

func (cc *captureChild) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(cc.base)+len(fields))
	for k, v := range cc.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	cc.parent.mu.Lock()
	defer cc.parent.mu.Unlock()
	cc.parent.entries = append(cc.parent.entries, Entry{Level: level, Message: msg, Fields: merged})
}

func (cc *captureChild) Debug(msg string, fields map[string]interface{}) { cc.log("debug", msg, fields) }
func (cc *captureChild) Info(msg string, fields map[string]interface{})  { cc.log("info", msg, fields) }
func (cc *captureChild) Warn(msg string, fields map[string]interface{})  { cc.log("warn", msg, fields) }
func (cc *captureChild) Error(msg string, fields map[string]interface{}) { cc.log("error", msg, fields) }

func (cc *captureChild) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(cc.base)+len(fields))
	for k, v := range cc.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &captureChild{parent: cc.parent, base: merged}
}

func (cc *captureChild) WithError(err error) Logger {
	return cc.WithFields(map[string]interface{}{"error": err})
}
