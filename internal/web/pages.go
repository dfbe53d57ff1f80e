package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"wms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type tableRow struct {
	ID      uint
	Cells   []string
	Details []string
}

type option struct {
	Value string
	Label string
}

type field struct {
	Name     string
	Label    string
	Type     string // text, date, number, select
	Required bool
	Options  []option
}

// resource is one managed table as the front end presents it.
type resource struct {
	Path      string // page path, "/product"
	APIPath   string // collection path on the API, "/products/"
	Title     string
	Columns   []string
	DateParam string
	Export    bool

	rows    func(cl *Client, query string) ([]tableRow, error)
	fields  func(cl *Client) []field
	payload func(c *fiber.Ctx) (interface{}, error)
}

func listRows[T any](apiPath string, row func(T) tableRow) func(*Client, string) ([]tableRow, error) {
	return func(cl *Client, query string) ([]tableRow, error) {
		var list []T
		if err := cl.Get(apiPath+query, &list); err != nil {
			return nil, err
		}
		rows := make([]tableRow, 0, len(list))
		for _, v := range list {
			rows = append(rows, row(v))
		}
		return rows, nil
	}
}

func staticFields(fields ...field) func(*Client) []field {
	return func(*Client) []field { return fields }
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func formInt(c *fiber.Ctx, name, label string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(c.FormValue(name)))
	if err != nil {
		return 0, fmt.Errorf("%s 必須是數字", label)
	}
	return n, nil
}

func formOptional(c *fiber.Ctx, name string) *string {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return nil
	}
	return &v
}

// options fetches a collection for a select box. Failures leave the box
// empty.
func options[T any](cl *Client, apiPath string, opt func(T) option) []option {
	var list []T
	if err := cl.Get(apiPath+"?limit=0", &list); err != nil {
		return nil
	}
	out := make([]option, 0, len(list))
	for _, v := range list {
		out = append(out, opt(v))
	}
	return out
}

func productOptions(cl *Client) []option {
	return options(cl, "/products/", func(p models.Product) option {
		return option{Value: id(p.ID), Label: fmt.Sprintf("%d - %s", p.ID, p.Name)}
	})
}

func supplierOptions(cl *Client) []option {
	return options(cl, "/suppliers/", func(s models.Supplier) option {
		return option{Value: id(s.ID), Label: fmt.Sprintf("%d - %s", s.ID, s.Name)}
	})
}

func warehouseOptions(cl *Client) []option {
	return options(cl, "/warehouse/", func(w models.Warehouse) option {
		return option{Value: id(w.ID), Label: fmt.Sprintf("%d - %s", w.ID, w.Name)}
	})
}

func staffOptions(cl *Client) []option {
	return options(cl, "/staff/", func(s models.Staff) option {
		return option{Value: id(s.ID), Label: fmt.Sprintf("%d - %s (%s)", s.ID, s.Name, s.Dept)}
	})
}

// listQuery forwards the search parameters of a list page to the API.
func listQuery(c *fiber.Ctx, dateParam string) string {
	v := url.Values{}
	v.Set("limit", "100")
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		v.Set("q", q)
	}
	if dateParam != "" {
		if d := c.Query(dateParam); d != "" {
			v.Set(dateParam, d)
		}
	}
	return "?" + v.Encode()
}

var resources = []resource{
	{
		Path:    "/product",
		APIPath: "/products/",
		Title:   "商品管理",
		Columns: []string{"商品編號", "名稱", "規格", "類別"},
		rows: listRows("/products/", func(p models.Product) tableRow {
			return tableRow{ID: p.ID, Cells: []string{id(p.ID), p.Name, deref(p.Spec), p.Category}}
		}),
		fields: staticFields(
			field{Name: "prName", Label: "名稱", Type: "text", Required: true},
			field{Name: "prSpec", Label: "規格", Type: "text"},
			field{Name: "prCategory", Label: "類別", Type: "text", Required: true},
		),
		payload: func(c *fiber.Ctx) (interface{}, error) {
			return models.Product{
				Name:     c.FormValue("prName"),
				Spec:     formOptional(c, "prSpec"),
				Category: c.FormValue("prCategory"),
			}, nil
		},
	},
	{
		Path:    "/supplier",
		APIPath: "/suppliers/",
		Title:   "供應商管理",
		Columns: []string{"供應商編號", "名稱", "電話", "地址"},
		rows: listRows("/suppliers/", func(s models.Supplier) tableRow {
			return tableRow{ID: s.ID, Cells: []string{id(s.ID), s.Name, s.Phone, s.Address}}
		}),
		fields: staticFields(
			field{Name: "suName", Label: "名稱", Type: "text", Required: true},
			field{Name: "suPhone", Label: "電話", Type: "text", Required: true},
			field{Name: "suAddress", Label: "地址", Type: "text", Required: true},
		),
		payload: func(c *fiber.Ctx) (interface{}, error) {
			return models.Supplier{
				Name:    c.FormValue("suName"),
				Phone:   c.FormValue("suPhone"),
				Address: c.FormValue("suAddress"),
			}, nil
		},
	},
	{
		Path:    "/warehouse",
		APIPath: "/warehouse/",
		Title:   "倉庫管理",
		Columns: []string{"倉庫編號", "名稱", "地點"},
		rows: listRows("/warehouse/", func(w models.Warehouse) tableRow {
			return tableRow{ID: w.ID, Cells: []string{id(w.ID), w.Name, deref(w.Location)}}
		}),
		fields: staticFields(
			field{Name: "waName", Label: "名稱", Type: "text", Required: true},
			field{Name: "waLocation", Label: "地點", Type: "text"},
		),
		payload: func(c *fiber.Ctx) (interface{}, error) {
			return models.Warehouse{
				Name:     c.FormValue("waName"),
				Location: formOptional(c, "waLocation"),
			}, nil
		},
	},
	{
		Path:    "/staff",
		APIPath: "/staff/",
		Title:   "員工管理",
		Columns: []string{"員工編號", "姓名", "部門"},
		rows: listRows("/staff/", func(s models.Staff) tableRow {
			return tableRow{ID: s.ID, Cells: []string{id(s.ID), s.Name, s.Dept}}
		}),
		fields: staticFields(
			field{Name: "stName", Label: "姓名", Type: "text", Required: true},
			field{Name: "stDept", Label: "部門", Type: "text", Required: true},
		),
		payload: func(c *fiber.Ctx) (interface{}, error) {
			return models.Staff{Name: c.FormValue("stName"), Dept: c.FormValue("stDept")}, nil
		},
	},
	{
		Path:      "/inbound",
		APIPath:   "/inbound/",
		Title:     "進貨單管理",
		Columns:   []string{"進貨單號", "日期", "供應商", "經手人", "明細"},
		DateParam: "io_date",
		Export:    true,
		rows: listRows("/inbound/", func(o models.InboundOrder) tableRow {
			details := make([]string, 0, len(o.Details))
			for _, d := range o.Details {
				details = append(details, fmt.Sprintf("商品 %d × %d → 倉庫 %d", d.ProductID, d.Quantity, d.WarehouseID))
			}
			return tableRow{
				ID:      o.InboundID,
				Cells:   []string{id(o.InboundID), o.Date.String(), id(o.SupplierID), id(o.StaffID)},
				Details: details,
			}
		}),
		fields: func(cl *Client) []field {
			return []field{
				{Name: "ioDate", Label: "進貨日期", Type: "date", Required: true},
				{Name: "SupplierID", Label: "供應商", Type: "select", Required: true, Options: supplierOptions(cl)},
				{Name: "StaffID", Label: "經手人", Type: "select", Required: true, Options: staffOptions(cl)},
				{Name: "ProductID", Label: "商品", Type: "select", Required: true, Options: productOptions(cl)},
				{Name: "ioQuantity", Label: "數量", Type: "number", Required: true},
				{Name: "WarehouseID", Label: "入庫倉庫", Type: "select", Required: true, Options: warehouseOptions(cl)},
			}
		},
		payload: func(c *fiber.Ctx) (interface{}, error) {
			d, err := models.ParseDate(c.FormValue("ioDate"))
			if err != nil {
				return nil, fmt.Errorf("進貨日期格式錯誤")
			}
			supplier, err := formInt(c, "SupplierID", "供應商")
			if err != nil {
				return nil, err
			}
			staff, err := formInt(c, "StaffID", "經手人")
			if err != nil {
				return nil, err
			}
			line, err := formLine(c, "ioQuantity")
			if err != nil {
				return nil, err
			}
			return models.InboundOrder{
				Date:       d,
				SupplierID: uint(supplier),
				StaffID:    uint(staff),
				Details: []models.InboundDetail{
					{ProductID: line.ProductID, Quantity: line.Quantity, WarehouseID: line.WarehouseID},
				},
			}, nil
		},
	},
	{
		Path:      "/requisitions",
		APIPath:   "/requisitions/",
		Title:     "領料單管理",
		Columns:   []string{"領料單號", "日期", "事由", "領料人", "明細"},
		DateParam: "re_date",
		Export:    true,
		rows: listRows("/requisitions/", func(r models.Requisition) tableRow {
			details := make([]string, 0, len(r.Details))
			for _, d := range r.Details {
				details = append(details, fmt.Sprintf("商品 %d × %d ← 倉庫 %d", d.ProductID, d.Quantity, d.WarehouseID))
			}
			return tableRow{
				ID:      r.ReqID,
				Cells:   []string{id(r.ReqID), r.Date.String(), r.Reason, id(r.StaffID)},
				Details: details,
			}
		}),
		fields: func(cl *Client) []field {
			return []field{
				{Name: "reDate", Label: "領料日期", Type: "date", Required: true},
				{Name: "reReason", Label: "事由", Type: "text", Required: true},
				{Name: "StaffID", Label: "領料人", Type: "select", Required: true, Options: staffOptions(cl)},
				{Name: "ProductID", Label: "商品", Type: "select", Required: true, Options: productOptions(cl)},
				{Name: "rdQuantity", Label: "數量", Type: "number", Required: true},
				{Name: "WarehouseID", Label: "出庫倉庫", Type: "select", Required: true, Options: warehouseOptions(cl)},
			}
		},
		payload: func(c *fiber.Ctx) (interface{}, error) {
			d, err := models.ParseDate(c.FormValue("reDate"))
			if err != nil {
				return nil, fmt.Errorf("領料日期格式錯誤")
			}
			staff, err := formInt(c, "StaffID", "領料人")
			if err != nil {
				return nil, err
			}
			line, err := formLine(c, "rdQuantity")
			if err != nil {
				return nil, err
			}
			return models.Requisition{
				Date:    d,
				Reason:  c.FormValue("reReason"),
				StaffID: uint(staff),
				Details: []models.ReqDetail{
					{ProductID: line.ProductID, Quantity: line.Quantity, WarehouseID: line.WarehouseID},
				},
			}, nil
		},
	},
}

type formDetail struct {
	ProductID   uint
	Quantity    int
	WarehouseID uint
}

// formLine reads the single detail line the add forms submit.
func formLine(c *fiber.Ctx, quantityField string) (formDetail, error) {
	product, err := formInt(c, "ProductID", "商品")
	if err != nil {
		return formDetail{}, err
	}
	qty, err := formInt(c, quantityField, "數量")
	if err != nil {
		return formDetail{}, err
	}
	warehouse, err := formInt(c, "WarehouseID", "倉庫")
	if err != nil {
		return formDetail{}, err
	}
	if product < 0 || warehouse < 0 {
		return formDetail{}, fmt.Errorf("編號不可為負數")
	}
	return formDetail{ProductID: uint(product), Quantity: qty, WarehouseID: uint(warehouse)}, nil
}
