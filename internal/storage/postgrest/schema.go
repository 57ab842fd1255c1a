package postgrest

// Table names in the shared store. Every table carries a site column or
// hangs off a row that does; tenants never see each other's rows.
const (
	tablePosts          = "posts"
	tableTranslations   = "post_translations"
	tableUsefulInfo     = "post_useful_info"
	tableImages         = "post_images"
	tableLocations      = "post_locations"
	tableCategories     = "categories"
	tableCommunes       = "communes"
	tablePostCategories = "post_categories"
	tablePostCommunes   = "post_communes"
)

// postReadSelect pulls the core row plus every relation in one fan-out
// request via resource embedding. Category/commune labels resolve
// through the many-to-many join on the store side.
const postReadSelect = "*," +
	"post_translations(lang,name,subtitle,description,category,info_html)," +
	"post_useful_info(lang,html)," +
	"post_images(url,position)," +
	"post_locations(position,label,address,hours,phone,website,email)," +
	"categories(slug,name_es,name_en)," +
	"communes(slug,name_es,name_en)"

// -----------------------------------------------------------------------------
// READ ROW SHAPES
// -----------------------------------------------------------------------------

type postRow struct {
	ID                int64   `json:"id"`
	Slug              string  `json:"slug"`
	Site              string  `json:"site"`
	FeaturedImage     *string `json:"featured_image"`
	Website           *string `json:"website"`
	Instagram         *string `json:"instagram"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Hours             *string `json:"hours"`
	ReservationLink   *string `json:"reservation_link"`
	ReservationPolicy *string `json:"reservation_policy"`
	InterestingFact   *string `json:"interesting_fact"`
	PhotosCredit      *string `json:"photos_credit"`

	Translations []translationRow `json:"post_translations"`
	UsefulInfo   []usefulInfoRow  `json:"post_useful_info"`
	Images       []imageRow       `json:"post_images"`
	Locations    []locationRow    `json:"post_locations"`
	Categories   []catalogRefRow  `json:"categories"`
	Communes     []catalogRefRow  `json:"communes"`
}

type translationRow struct {
	Lang        string   `json:"lang"`
	Name        *string  `json:"name"`
	Subtitle    *string  `json:"subtitle"`
	Description []string `json:"description"`
	Category    *string  `json:"category"`
	InfoHTML    *string  `json:"info_html"`
}

type usefulInfoRow struct {
	Lang string `json:"lang"`
	HTML string `json:"html"`
}

type imageRow struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type locationRow struct {
	Position int     `json:"position"`
	Label    string  `json:"label"`
	Address  *string `json:"address"`
	Hours    *string `json:"hours"`
	Phone    *string `json:"phone"`
	Website  *string `json:"website"`
	Email    *string `json:"email"`
}

type catalogRefRow struct {
	Slug   string  `json:"slug"`
	NameES *string `json:"name_es"`
	NameEN *string `json:"name_en"`
}

type idRow struct {
	ID int64 `json:"id"`
}

type catalogRow struct {
	ID         int64   `json:"id"`
	Slug       string  `json:"slug"`
	Site       string  `json:"site"`
	NameES     *string `json:"name_es"`
	NameEN     *string `json:"name_en"`
	ShowInMenu bool    `json:"show_in_menu"`
	MenuOrder  int     `json:"menu_order"`
}
