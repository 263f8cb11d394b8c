package handler

import (
	"net/http"

	"github.com/robertoraimondo/budget/internal/bank"
	"github.com/robertoraimondo/budget/internal/util"

	"github.com/gin-gonic/gin"
)

// BankHandler exposes the routing number directory.
type BankHandler struct{}

func NewBankHandler() *BankHandler {
	return &BankHandler{}
}

// Lookup resolves a routing number to a bank name.
func (h *BankHandler) Lookup(c *gin.Context) {
	result := bank.Lookup(c.Param("routing"))
	util.Success(c, util.Response{"result": result})
}

// Validate reports whether a routing number passes the ABA checksum.
func (h *BankHandler) Validate(c *gin.Context) {
	routing := bank.NormalizeRoutingNumber(c.Param("routing"))
	util.Success(c, util.Response{
		"routing_number": routing,
		"valid":          bank.ValidRoutingNumber(routing),
	})
}

// Suggestions returns directory entries matching a routing number prefix.
func (h *BankHandler) Suggestions(c *gin.Context) {
	partial := c.Param("partial")
	if len(bank.NormalizeRoutingNumber(partial)) < 3 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "need at least 3 digits for suggestions")
		return
	}
	util.Success(c, util.Response{"suggestions": bank.Suggestions(partial)})
}
