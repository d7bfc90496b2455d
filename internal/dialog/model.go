package dialog

type State string

const (
	StateIdle State = "idle"

	// После рисования: ждём точную длину (0 = оставить нарисованную)
	StateAwaitLength State = "await_length"

	// Правка свойств выбранного бруса
	StateAwaitEditLength State = "await_edit_length"

	StateAwaitProjectName State = "await_project_name"
)

type Payload map[string]any

// Ключи payload
const (
	KeyMaterial = "material"
	KeySnap     = "snap"
	KeyColor    = "color"
	KeyBar      = "bar" // хэндл бруса, к которому относится ожидание
)

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// Mode режим рисования чата: выбранный материал, привязка к 45°, цвет.
type Mode struct {
	Material string
	Snap     bool
	Color    string
	Bar      string
}

func ModeOf(p Payload) Mode {
	var m Mode
	m.Material, _ = GetString(p, KeyMaterial)
	m.Snap, _ = GetBool(p, KeySnap)
	m.Color, _ = GetString(p, KeyColor)
	m.Bar, _ = GetString(p, KeyBar)
	return m
}

func (m Mode) Payload() Payload {
	p := Payload{KeySnap: m.Snap}
	if m.Material != "" {
		p[KeyMaterial] = m.Material
	}
	if m.Color != "" {
		p[KeyColor] = m.Color
	}
	if m.Bar != "" {
		p[KeyBar] = m.Bar
	}
	return p
}

// GetString Helper для безопасного чтения строк из payload
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func GetBool(p Payload, key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
