package models

// DocumentKind tells the extractor whether Data holds a file or plain text.
type DocumentKind string

const (
	DocumentKindFile DocumentKind = "file"
	DocumentKindText DocumentKind = "text"
)

// Document is the ephemeral extraction input. It is discarded once text has been
// extracted from it.
type Document struct {
	Kind     DocumentKind
	Data     []byte
	Text     string
	MimeType string
	FileName string
}

func NewFileDocument(data []byte, mimeType, fileName string) Document {
	return Document{
		Kind:     DocumentKindFile,
		Data:     data,
		MimeType: mimeType,
		FileName: fileName,
	}
}

func NewTextDocument(text string) Document {
	return Document{
		Kind:     DocumentKindText,
		Text:     text,
		MimeType: "text/plain",
	}
}
