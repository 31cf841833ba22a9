package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/myysophia/toolbox-backend/internal/db/models"
	"github.com/myysophia/toolbox-backend/internal/logger"
	"go.uber.org/zap"
)

// 全局验证器
var (
	validate *validator.Validate
	trans    ut.Translator
)

// InitValidator 初始化验证器
// 直接使用 gin 绑定层的验证引擎，自定义标签对 ShouldBindJSON 生效
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate = v
	} else {
		validate = validator.New()
	}

	// 注册自定义标签名称
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	// 创建中文翻译器
	zhTrans := zh.New()
	uni := ut.New(zhTrans, zhTrans)
	trans, _ = uni.GetTranslator("zh")

	// 注册中文翻译
	err := zh_translations.RegisterDefaultTranslations(validate, trans)
	if err != nil {
		logger.Error("注册验证器翻译失败", zap.Error(err))
		return
	}

	// 注册自定义验证器
	registerCustomValidators()
}

// registerCustomValidators 注册自定义验证器
func registerCustomValidators() {
	// 服务类型
	_ = validate.RegisterValidation("service_type", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == models.ServiceTypePlatform || value == models.ServiceTypeService
	})

	// 链接打开方式
	_ = validate.RegisterValidation("url_type", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == models.URLTypeInternal || value == models.URLTypeTerminal || value == models.URLTypeInternalTerminal
	})

	// 用户角色
	_ = validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == models.RoleAdmin || value == models.RoleUser
	})
}

// BindAndValidate 绑定并验证请求数据
func BindAndValidate(c *gin.Context, obj interface{}) error {
	// 根据请求类型选择绑定方法
	var err error
	switch c.Request.Method {
	case "GET":
		err = c.ShouldBindQuery(obj)
	case "POST", "PUT", "PATCH":
		contentType := c.GetHeader("Content-Type")
		if strings.Contains(contentType, "application/json") {
			err = c.ShouldBindJSON(obj)
		} else if strings.Contains(contentType, "multipart/form-data") {
			err = c.ShouldBindWith(obj, binding.FormMultipart)
		} else {
			err = c.ShouldBind(obj)
		}
	default:
		err = c.ShouldBind(obj)
	}

	// 处理绑定错误
	if err != nil {
		logger.Warn("请求数据绑定失败",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		return err
	}

	if validate == nil {
		InitValidator()
	}

	// 验证
	err = validate.Struct(obj)
	if err != nil {
		logger.Warn("数据验证失败",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))

		// 如果是验证错误，翻译错误信息
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errMsgs := []string{}
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, e.Translate(trans))
			}
			return errors.New(strings.Join(errMsgs, "; "))
		}

		return err
	}

	return nil
}
