package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage = "image/"

	MaxDocumentSize = 5 << 20
	MaxAvatarSize   = 2 << 20
)

var (
	TextDocumentExtensions = []string{".txt", ".md", ".markdown"}
	DocumentExtensions     = []string{".txt", ".md", ".markdown", ".pdf", ".docx"}
)
