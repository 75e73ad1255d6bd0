package enums

// NoticeType classifies user-facing notifications.
type NoticeType string

const (
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
	NoticeInfo    NoticeType = "info"
)

// String implements fmt.Stringer.
func (n NoticeType) String() string {
	return string(n)
}
