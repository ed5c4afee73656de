package routepb

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

func newMessage(name string) *dynamicpb.Message {
	return dynamicpb.NewMessage(messageDescriptor(name))
}

func field(m protoreflect.Message, name string) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic("routepb: " + string(m.Descriptor().Name()) + " has no field " + name)
	}
	return fd
}

// Proto3 scalars carry no presence, so zero values are left unset and read back
// as zero.

func setString(m protoreflect.Message, name, v string) {
	if v != "" {
		m.Set(field(m, name), protoreflect.ValueOfString(v))
	}
}

func setInt32(m protoreflect.Message, name string, v int32) {
	if v != 0 {
		m.Set(field(m, name), protoreflect.ValueOfInt32(v))
	}
}

func setInt64(m protoreflect.Message, name string, v int64) {
	if v != 0 {
		m.Set(field(m, name), protoreflect.ValueOfInt64(v))
	}
}

func setDouble(m protoreflect.Message, name string, v float64) {
	if v != 0 {
		m.Set(field(m, name), protoreflect.ValueOfFloat64(v))
	}
}

func setBool(m protoreflect.Message, name string, v bool) {
	if v {
		m.Set(field(m, name), protoreflect.ValueOfBool(v))
	}
}

func setStrings(m protoreflect.Message, name string, vs []string) {
	if len(vs) == 0 {
		return
	}
	l := m.Mutable(field(m, name)).List()
	for _, v := range vs {
		l.Append(protoreflect.ValueOfString(v))
	}
}

func mutableMessage(m protoreflect.Message, name string) protoreflect.Message {
	return m.Mutable(field(m, name)).Message()
}

func mutableList(m protoreflect.Message, name string) protoreflect.List {
	return m.Mutable(field(m, name)).List()
}

func getString(m protoreflect.Message, name string) string {
	return m.Get(field(m, name)).String()
}

func getInt32(m protoreflect.Message, name string) int32 {
	return int32(m.Get(field(m, name)).Int())
}

func getInt64(m protoreflect.Message, name string) int64 {
	return m.Get(field(m, name)).Int()
}

func getDouble(m protoreflect.Message, name string) float64 {
	return m.Get(field(m, name)).Float()
}

func getBool(m protoreflect.Message, name string) bool {
	return m.Get(field(m, name)).Bool()
}

func getStrings(m protoreflect.Message, name string) []string {
	l := getList(m, name)
	out := make([]string, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		out = append(out, l.Get(i).String())
	}
	return out
}

func getList(m protoreflect.Message, name string) protoreflect.List {
	return m.Get(field(m, name)).List()
}

func getMessage(m protoreflect.Message, name string) (protoreflect.Message, bool) {
	fd := field(m, name)
	if !m.Has(fd) {
		return nil, false
	}
	return m.Get(fd).Message(), true
}
