package post

import "time"

// Post is the persistent post document. Likes and comments are embedded
// and ordered most-recent-first.
type Post struct {
	ID        string    `json:"id" bson:"_id"`
	User      string    `json:"user" bson:"user"`
	Title     string    `json:"title" bson:"title"`
	Text      string    `json:"text" bson:"text"`
	Seo       string    `json:"seo" bson:"seo"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Image     *Image    `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []Like    `json:"likes" bson:"likes"`
	Comments  []Comment `json:"comments" bson:"comments"`
	Date      time.Time `json:"date" bson:"date"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

type Image struct {
	ID  string `json:"id,omitempty" bson:"id,omitempty"`
	URL string `json:"url,omitempty" bson:"url,omitempty"`
}

type Like struct {
	User string `json:"user" bson:"user"`
}

type Comment struct {
	ID     string    `json:"id" bson:"_id"`
	User   string    `json:"user" bson:"user"`
	Text   string    `json:"text" bson:"text"`
	Name   string    `json:"name,omitempty" bson:"name,omitempty"`
	Avatar string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Date   time.Time `json:"date" bson:"date"`
}

// Clone returns a deep copy so callers can mutate without touching the
// stored instance.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Image != nil {
		img := *p.Image
		cp.Image = &img
	}
	cp.Likes = make([]Like, len(p.Likes))
	copy(cp.Likes, p.Likes)
	cp.Comments = make([]Comment, len(p.Comments))
	copy(cp.Comments, p.Comments)
	return &cp
}
