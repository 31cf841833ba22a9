package models

// 服务类型
const (
	ServiceTypePlatform = "platform" // 平台入口
	ServiceTypeService  = "service"  // 普通服务
)

// 链接打开方式
const (
	URLTypeInternal         = "internal"          // 站内打开
	URLTypeTerminal         = "terminal"          // 终端打开
	URLTypeInternalTerminal = "internal_terminal" // 站内+终端
)

// PlatformService 平台/服务目录条目
// service_code 是对外可见的业务主键，增删改查均以它为查找键
type PlatformService struct {
	Model
	ServiceCode        string `gorm:"size:100;uniqueIndex;not null" json:"service_code"`
	ServiceName        string `gorm:"size:200;not null" json:"service_name"`
	ServiceDescription string `gorm:"type:text" json:"service_description"`
	ServiceType        string `gorm:"size:20;not null;default:service" json:"service_type"` // platform, service
	IconName           string `gorm:"size:100" json:"icon_name"`
	ColorClass         string `gorm:"size:100" json:"color_class"`
	ServiceURL         string `gorm:"size:500" json:"service_url"`
	URLType            string `gorm:"size:30;default:internal" json:"url_type"` // internal, terminal, internal_terminal
	OtherInformation   string `gorm:"type:text" json:"other_information"`
	SortOrder          int    `gorm:"default:0;index" json:"sort_order"`
	IsVisible          bool   `gorm:"default:true" json:"is_visible"`
}

// TableName 指定表名
func (PlatformService) TableName() string {
	return "platform_services"
}
