package usecase

// 一覧の共通ページング
type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func newPageInfo(page, limit int, total int64) PageInfo {
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return PageInfo{Page: page, Limit: limit, Total: total, Pages: pages}
}

func (p PageInfo) HasPrev() bool { return p.Page > 1 }
func (p PageInfo) HasNext() bool { return p.Page < p.Pages }
func (p PageInfo) PrevPage() int { return p.Page - 1 }
func (p PageInfo) NextPage() int { return p.Page + 1 }

func checkPage(page, limit int) error {
	if page < 1 {
		return validation("invalid page")
	}
	if limit < 1 || limit > 100 {
		return validation("invalid limit")
	}
	return nil
}
