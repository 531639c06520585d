package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// UnknownLocation 无法解析潜点时使用的地点名称
const UnknownLocation = "Unknown Location"

// Dive 潜水记录 (存储单位始终为公制)
type Dive struct {
	ID          int64           `json:"id" db:"id"`
	DateTime    time.Time       `json:"datetime" db:"dive_datetime"` // UTC
	Location    string          `json:"location" db:"location"`
	Depth       float64         `json:"depth" db:"max_depth"`   // 最大深度 (米)
	Duration    int             `json:"duration" db:"duration"` // 时长 (分钟)
	Buddy       *string         `json:"buddy,omitempty" db:"buddy"`
	Lat         float64         `json:"lat" db:"latitude"` // 0,0 表示未知
	Lng         float64         `json:"lng" db:"longitude"`
	Samples     []DiveSample    `json:"samples,omitempty" db:"samples"` // 按 time 升序
	Equipment   *Equipment      `json:"equipment,omitempty" db:"equipment"`
	Conditions  *DiveConditions `json:"conditions,omitempty" db:"conditions"`
	DiveType    *string         `json:"dive_type,omitempty" db:"dive_type"` // recreational/training/technical/work/research
	Rating      *int            `json:"rating,omitempty" db:"rating"`       // 1-5 星
	Notes       *string         `json:"notes,omitempty" db:"notes"`
	SafetyStops []SafetyStop    `json:"safety_stops,omitempty" db:"safety_stops"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Valid 深度与时长同时为 0 的记录视为空记录
func (d *Dive) Valid() bool {
	return !(d.Depth == 0 && d.Duration == 0)
}

// HasCoordinates 0,0 是未知坐标的哨兵值
func (d *Dive) HasCoordinates() bool {
	return d.Lat != 0 || d.Lng != 0
}

// DiveSample 潜水剖面采样点
type DiveSample struct {
	Time        int      `json:"time"`                  // 距入水秒数
	Depth       float64  `json:"depth"`                 // 米
	Temperature *float64 `json:"temperature,omitempty"` // 源数据原值，可能为开尔文
	Pressure    *float64 `json:"pressure,omitempty"`    // 气瓶压力 (bar)
}

// Tank 气瓶
type Tank struct {
	Name            *string `json:"name,omitempty"`
	Size            float64 `json:"size"`             // 升
	WorkingPressure float64 `json:"working_pressure"` // bar
	StartPressure   float64 `json:"start_pressure"`   // bar
	EndPressure     float64 `json:"end_pressure"`     // bar
	GasMix          GasMix  `json:"gas_mix"`
	Material        string  `json:"material"` // steel/aluminum
}

// 气瓶材质
const (
	MaterialSteel    = "steel"
	MaterialAluminum = "aluminum"
)

// Wetsuit 防寒衣
type Wetsuit struct {
	Type      string  `json:"type"`                // wetsuit/drysuit/shorty/none
	Thickness *int    `json:"thickness,omitempty"` // 毫米
	Material  *string `json:"material,omitempty"`
}

// Equipment 装备
type Equipment struct {
	Tanks     []Tank   `json:"tanks"`
	BCD       *string  `json:"bcd,omitempty"`
	Regulator *string  `json:"regulator,omitempty"`
	Wetsuit   *Wetsuit `json:"wetsuit,omitempty"`
	Weights   *float64 `json:"weights,omitempty"` // 公斤
	Fins      *string  `json:"fins,omitempty"`
	Mask      *string  `json:"mask,omitempty"`
	Computer  *string  `json:"computer,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// Value 实现 driver.Valuer 接口，以 JSON 存储
func (e Equipment) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan 实现 sql.Scanner 接口
func (e *Equipment) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, e)
}

// WaterTemp 水温 (摄氏度)
type WaterTemp struct {
	Surface *float64 `json:"surface,omitempty"`
	Bottom  *float64 `json:"bottom,omitempty"`
}

// Current 水流
type Current struct {
	Strength  *string `json:"strength,omitempty"` // none/light/moderate/strong
	Direction *string `json:"direction,omitempty"`
}

// DiveConditions 环境条件，容器存在不代表字段齐全
type DiveConditions struct {
	WaterTemp  *WaterTemp `json:"water_temp,omitempty"`
	AirTemp    *float64   `json:"air_temp,omitempty"`   // 摄氏度
	Visibility *float64   `json:"visibility,omitempty"` // 米
	Current    *Current   `json:"current,omitempty"`
	Weather    *string    `json:"weather,omitempty"`
	SeaState   *int       `json:"sea_state,omitempty"` // 0-9
	Surge      *string    `json:"surge,omitempty"`
}

// Value 实现 driver.Valuer 接口
func (c DiveConditions) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan 实现 sql.Scanner 接口
func (c *DiveConditions) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// SafetyStop 安全停留
type SafetyStop struct {
	Depth    float64 `json:"depth"`    // 米
	Duration int     `json:"duration"` // 分钟
}
