package analysis

import "strings"

// Category is the content label ("Tipo") assigned to each row.
type Category string

const (
	CategoryReel  Category = "Reel"
	CategoryVideo Category = "Video"
	CategoryOther Category = "Outro"
)

// Categories that take part in aggregation, in report order.
var reportCategories = []Category{CategoryReel, CategoryVideo}

// ClassifyRow labels rec for the given platform. Absent columns read as
// empty strings, so the function is total.
func ClassifyRow(rec Record, f Fields, p Platform) Category {
	switch p {
	case PlatformFacebook:
		return classifyFacebook(rec, f)
	case PlatformInstagram:
		return classifyInstagram(rec, f)
	default:
		return CategoryOther
	}
}

func classifyFacebook(rec Record, f Fields) Category {
	link := strings.ToLower(rec.Get(f.Permalink))
	postType := strings.ToLower(rec.Get(f.PostType))
	if strings.Contains(link, "/reel") {
		return CategoryReel
	}
	if strings.Contains(link, "/videos") || strings.Contains(postType, "video") {
		return CategoryVideo
	}
	return CategoryOther
}

func classifyInstagram(rec Record, f Fields) Category {
	kind := rec.Get(f.PostType)
	if kind == "" {
		kind = rec.Get(f.ContentType)
	}
	kind = strings.ToLower(kind)
	link := strings.ToLower(rec.Get(f.Permalink))
	if strings.Contains(kind, "reel") || strings.Contains(link, "/reel") {
		return CategoryReel
	}
	if strings.Contains(kind, "video") {
		return CategoryVideo
	}
	return CategoryOther
}
