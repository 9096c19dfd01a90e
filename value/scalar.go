package value

type Blank struct{}

func Empty() ScalarValue {
	return Blank{}
}

func (Blank) Kind() ValueKind {
	return KindBlank
}

func (Blank) String() string {
	return ""
}

func (Blank) Scalar() any {
	return nil
}

func (Blank) sealed() {}

type Float float64

func (Float) Kind() ValueKind {
	return KindNumber
}

func (f Float) String() string {
	return formatNumber(float64(f), '.')
}

func (f Float) Scalar() any {
	return float64(f)
}

func (Float) sealed() {}

type Text string

func (Text) Kind() ValueKind {
	return KindText
}

func (t Text) String() string {
	return string(t)
}

func (t Text) Scalar() any {
	return string(t)
}

func (Text) sealed() {}

type Boolean bool

func (Boolean) Kind() ValueKind {
	return KindLogical
}

func (b Boolean) String() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func (b Boolean) Scalar() any {
	return bool(b)
}

func (Boolean) sealed() {}
