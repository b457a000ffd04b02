package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/pos/internal/domain"
)

// Wire types shared by the api handlers and the kiosk's api client.

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type FoodItemDTO struct {
	ID               int               `json:"fooditem_id"`
	Name             string            `json:"fooditem_name"`
	Type             domain.FoodType   `json:"type"`
	InStock          bool              `json:"in_stock"`
	Seasonal         []int             `json:"seasonal"`
	InventoryItemIDs []int             `json:"inventoryitem_ids"`
	InventoryAmounts []decimal.Decimal `json:"inventory_amounts"`
}

func NewFoodItemDTO(f *domain.FoodItem) FoodItemDTO {
	return FoodItemDTO{
		ID:               f.ID,
		Name:             f.Name,
		Type:             f.Type,
		InStock:          f.InStock,
		Seasonal:         nonNilInts(f.Seasonal),
		InventoryItemIDs: nonNilInts(f.InventoryItemIDs),
		InventoryAmounts: nonNilDecimals(f.InventoryAmounts),
	}
}

type MenuItemDTO struct {
	ID               int             `json:"menuitem_id"`
	Name             string          `json:"menuitem_name"`
	Price            decimal.Decimal `json:"price"`
	ImageLink        string          `json:"image_link"`
	InventoryItemIDs []int           `json:"inventoryitem_ids"`
	InStock          bool            `json:"in_stock"`
}

func NewMenuItemDTO(m *domain.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:               m.ID,
		Name:             m.Name,
		Price:            m.Price,
		ImageLink:        m.ImageLink,
		InventoryItemIDs: nonNilInts(m.InventoryItemIDs),
		InStock:          m.InStock,
	}
}

func (m MenuItemDTO) ToDomain() *domain.MenuItem {
	return &domain.MenuItem{
		ID:               m.ID,
		Name:             m.Name,
		Price:            m.Price,
		ImageLink:        m.ImageLink,
		InventoryItemIDs: m.InventoryItemIDs,
		InStock:          m.InStock,
	}
}

// LinkageDTO is a bill of materials as two parallel columns.
type LinkageDTO struct {
	Kind             domain.StockOwnerKind `json:"kind"`
	ID               int                   `json:"id"`
	InventoryItemIDs []int                 `json:"inventoryitem_ids"`
	InventoryAmounts []decimal.Decimal     `json:"inventory_amounts"`
}

func NewLinkageDTO(kind domain.StockOwnerKind, id int, lines []domain.Consumption) LinkageDTO {
	dto := LinkageDTO{
		Kind:             kind,
		ID:               id,
		InventoryItemIDs: make([]int, 0, len(lines)),
		InventoryAmounts: make([]decimal.Decimal, 0, len(lines)),
	}
	for _, l := range lines {
		dto.InventoryItemIDs = append(dto.InventoryItemIDs, l.InventoryItemID)
		dto.InventoryAmounts = append(dto.InventoryAmounts, l.Amount)
	}
	return dto
}

// Consumption zips the columns back; unpaired entries are dropped.
func (l LinkageDTO) Consumption() []domain.Consumption {
	f := domain.FoodItem{InventoryItemIDs: l.InventoryItemIDs, InventoryAmounts: l.InventoryAmounts}
	return f.Consumption()
}

type StockRequest struct {
	InStock *bool `json:"in_stock"`
}

type InventoryItemDTO struct {
	ID       int             `json:"inventoryitem_id"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

func NewInventoryItemDTO(i *domain.InventoryItem) InventoryItemDTO {
	return InventoryItemDTO{ID: i.ID, Name: i.Name, Quantity: i.Quantity, Unit: i.Unit}
}

func (i InventoryItemDTO) ToDomain() *domain.InventoryItem {
	return &domain.InventoryItem{ID: i.ID, Name: i.Name, Quantity: i.Quantity, Unit: i.Unit}
}

type CreateInventoryRequest struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

type AmountRequest struct {
	Amount decimal.Decimal       `json:"amount"`
	Reason domain.MovementReason `json:"reason,omitempty"`
}

// DecrementResponse is the updated item plus what the decrement actually took.
type DecrementResponse struct {
	InventoryItemDTO
	Consumed  decimal.Decimal `json:"consumed"`
	Shortfall decimal.Decimal `json:"shortfall"`
	At        time.Time       `json:"at"`
}

func (d DecrementResponse) Movement() domain.InventoryMovement {
	return domain.InventoryMovement{
		InventoryItemID: d.ID,
		Delta:           d.Consumed.Neg(),
		Shortfall:       d.Shortfall,
		Remaining:       d.Quantity,
		Reason:          domain.MovementSale,
		At:              d.At,
	}
}

// Selections is the per-item food selection matrix. It decodes from a JSON array or
// from a string holding one, since browser clients send it pre-encoded.
type Selections [][]int

func (s *Selections) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		b = []byte(raw)
	}

	var out [][]int
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("fooditem_ids: %w", err)
	}
	*s = out
	return nil
}

type CreateOrderRequest struct {
	EmployeeID  int             `json:"employee_id"`
	CustomerID  int             `json:"customer_id"`
	MenuItemIDs []int           `json:"menuitem_ids"`
	FoodItemIDs Selections      `json:"fooditem_ids"`
	Total       decimal.Decimal `json:"total"`
	Tax         decimal.Decimal `json:"tax"`
	OrderedTime time.Time       `json:"ordered_time"`
}

type OrderDTO struct {
	ID          int             `json:"order_id"`
	CustomerID  int             `json:"customer_id"`
	EmployeeID  int             `json:"employee_id"`
	MenuItemIDs []int           `json:"menuitem_ids"`
	FoodItemIDs [][]int         `json:"fooditem_ids"`
	Total       decimal.Decimal `json:"total"`
	Tax         decimal.Decimal `json:"tax"`
	OrderedTime time.Time       `json:"ordered_time"`
	Voided      bool            `json:"voided"`
}

func NewOrderDTO(o *domain.Order) OrderDTO {
	return OrderDTO{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		EmployeeID:  o.EmployeeID,
		MenuItemIDs: o.MenuItemIDs,
		FoodItemIDs: o.FoodItemIDs,
		Total:       o.Total,
		Tax:         o.Tax,
		OrderedTime: o.OrderedAt,
		Voided:      o.Voided,
	}
}

func (o OrderDTO) ToDomain() *domain.Order {
	return &domain.Order{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		EmployeeID:  o.EmployeeID,
		MenuItemIDs: o.MenuItemIDs,
		FoodItemIDs: o.FoodItemIDs,
		Total:       o.Total,
		Tax:         o.Tax,
		OrderedAt:   o.OrderedTime,
		Voided:      o.Voided,
	}
}

type HourlySalesDTO struct {
	Hour       time.Time       `json:"hour"`
	OrderCount int             `json:"order_count"`
	Total      decimal.Decimal `json:"total"`
	Tax        decimal.Decimal `json:"tax"`
}

type XReportDTO struct {
	PeriodStart time.Time        `json:"period_start"`
	GeneratedAt time.Time        `json:"generated_at"`
	OrderCount  int              `json:"order_count"`
	Total       decimal.Decimal  `json:"total"`
	Tax         decimal.Decimal  `json:"tax"`
	Hours       []HourlySalesDTO `json:"hours"`
}

func NewXReportDTO(x *domain.XReport) XReportDTO {
	dto := XReportDTO{
		PeriodStart: x.PeriodStart,
		GeneratedAt: x.GeneratedAt,
		OrderCount:  x.OrderCount,
		Total:       x.Total.Round(2),
		Tax:         x.Tax.Round(2),
		Hours:       make([]HourlySalesDTO, 0, len(x.Hours)),
	}
	for _, h := range x.Hours {
		dto.Hours = append(dto.Hours, HourlySalesDTO{Hour: h.Hour, OrderCount: h.OrderCount, Total: h.Total.Round(2), Tax: h.Tax.Round(2)})
	}
	return dto
}

type ZReportDTO struct {
	ID          int             `json:"z_report_id"`
	PeriodStart time.Time       `json:"period_start"`
	ClosedAt    time.Time       `json:"closed_at"`
	OrderCount  int             `json:"order_count"`
	Total       decimal.Decimal `json:"total"`
	Tax         decimal.Decimal `json:"tax"`
}

func NewZReportDTO(z *domain.ZReport) ZReportDTO {
	return ZReportDTO{
		ID:          z.ID,
		PeriodStart: z.PeriodStart,
		ClosedAt:    z.ClosedAt,
		OrderCount:  z.OrderCount,
		Total:       z.Total.Round(2),
		Tax:         z.Tax.Round(2),
	}
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilDecimals(v []decimal.Decimal) []decimal.Decimal {
	if v == nil {
		return []decimal.Decimal{}
	}
	return v
}
