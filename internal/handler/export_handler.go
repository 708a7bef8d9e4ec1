package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportData 以 xlsx 附件形式导出全部习惯与打卡数据
func (a *API) ExportData(c *gin.Context) {
	content, name, err := a.exports.Workbook()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "导出数据失败")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, content)
}
