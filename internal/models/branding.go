package models

// Branding 管理端品牌外观配置
type Branding struct {
	AppName       string `json:"appName"`
	AppTitle      string `json:"appTitle"`
	LogoURL       string `json:"logoUrl"`
	PrimaryColor  string `json:"primaryColor"`
	LoginTitle    string `json:"loginTitle"`
	LoginSubtitle string `json:"loginSubtitle"`
}

var defaultBranding = Branding{
	AppName:       "SHM Admin",
	AppTitle:      "SHM Admin",
	LogoURL:       "",
	PrimaryColor:  "#22d3ee",
	LoginTitle:    "SHM Admin",
	LoginSubtitle: "Добро пожаловать",
}

// DefaultBranding 返回内置默认品牌配置
func DefaultBranding() Branding {
	return defaultBranding
}

// DefaultBrandingDocument 返回默认品牌配置的文档形式
func DefaultBrandingDocument() Document {
	doc, err := MarshalDocument(defaultBranding)
	if err != nil {
		// 仅含字符串字段的结构体不会编码失败
		panic(err)
	}
	return doc
}
