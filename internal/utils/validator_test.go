package utils

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestInitValidator_CustomTagsOnBindingEngine(t *testing.T) {
	InitValidator()

	// 自定义标签注册在 gin 绑定层的引擎上，ShouldBindJSON 可直接使用
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)

	assert.NoError(t, engine.Var("platform", "service_type"))
	assert.NoError(t, engine.Var("service", "service_type"))
	assert.Error(t, engine.Var("widget", "service_type"))

	assert.NoError(t, engine.Var("internal", "url_type"))
	assert.NoError(t, engine.Var("terminal", "url_type"))
	assert.NoError(t, engine.Var("internal_terminal", "url_type"))
	assert.Error(t, engine.Var("popup", "url_type"))

	assert.NoError(t, engine.Var("admin", "user_role"))
	assert.NoError(t, engine.Var("user", "user_role"))
	assert.Error(t, engine.Var("root", "user_role"))
}
