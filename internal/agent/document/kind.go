package document

import (
	"strings"

	"github.com/feichai0017/document-printer/internal/models"
)

// Kind 解析器种类，封闭集合
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindWord
	KindExcel
)

// Kinds 按注册顺序列出所有解析器，匹配时取第一个
var Kinds = []Kind{KindPDF, KindWord, KindExcel}

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindWord:
		return "word"
	case KindExcel:
		return "excel"
	default:
		return "unknown"
	}
}

// Extensions returns the lower-case extensions the kind accepts.
func (k Kind) Extensions() []string {
	switch k {
	case KindPDF:
		return []string{"pdf"}
	case KindWord:
		return []string{"docx", "doc"}
	case KindExcel:
		return []string{"xlsx", "xls"}
	default:
		return nil
	}
}

// Supports 大小写不敏感地判断扩展名
func (k Kind) Supports(ext string) bool {
	for _, e := range k.Extensions() {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Parse returns the fixed content for the kind; file contents are never read.
func (k Kind) Parse(doc models.Document) string {
	switch k {
	case KindPDF:
		return "PDF content extracted"
	case KindWord:
		return "Word document content extracted"
	case KindExcel:
		return "Excel spreadsheet data extracted"
	default:
		return ""
	}
}

// Match 返回第一个支持该扩展名的解析器
func Match(ext string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Supports(ext) {
			return k, true
		}
	}
	return KindUnknown, false
}
