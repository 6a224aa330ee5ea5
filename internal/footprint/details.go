package footprint

import (
	"encoding/json"
	"fmt"
	"math"
)

// Details 是某一类别的原始输入，仅作展示与洞察参考，不参与排放汇总。
// 每个实现只属于一个类别，记录通过 Category 标签区分载荷类型。
type Details interface {
	Category() Category
	validate() error
}

// TransportationDetails 出行类输入
type TransportationDetails struct {
	Vehicle    string  `json:"transportType,omitempty"`
	Fuel       string  `json:"fuelType,omitempty"`
	DistanceKm float64 `json:"distanceKm"`
	Flights    float64 `json:"flights"`
}

// ElectricityDetails 用电类输入
type ElectricityDetails struct {
	UnitsUsed     float64 `json:"unitsUsed"`
	LPGCylinders  float64 `json:"lpgCylinders"`
	ACHoursPerDay float64 `json:"acHoursPerDay"`
}

// FoodDetails 饮食类输入
type FoodDetails struct {
	DietType     string  `json:"dietType,omitempty"`
	DairyCups    float64 `json:"dairyCups"`
	SnacksPerDay float64 `json:"snacksPerDay"`
	WasteKg      float64 `json:"wasteKg"`
}

// LifestyleDetails 生活方式类输入
type LifestyleDetails struct {
	ClothesBought float64 `json:"clothesBought"`
	GadgetsBought float64 `json:"gadgetsBought"`
	PlasticWaste  float64 `json:"plasticWaste"`
	RecyclingKg   float64 `json:"recyclingKg"`
	WaterUsage    float64 `json:"waterUsage"`
}

func (TransportationDetails) Category() Category { return Transportation }
func (ElectricityDetails) Category() Category    { return Electricity }
func (FoodDetails) Category() Category           { return Food }
func (LifestyleDetails) Category() Category      { return Lifestyle }

func (d TransportationDetails) validate() error {
	return checkQuantities(map[string]float64{"distance": d.DistanceKm, "flights": d.Flights})
}

func (d ElectricityDetails) validate() error {
	return checkQuantities(map[string]float64{"units": d.UnitsUsed, "lpg": d.LPGCylinders, "acHours": d.ACHoursPerDay})
}

func (d FoodDetails) validate() error {
	return checkQuantities(map[string]float64{"dairy": d.DairyCups, "snacks": d.SnacksPerDay, "waste": d.WasteKg})
}

func (d LifestyleDetails) validate() error {
	return checkQuantities(map[string]float64{
		"clothes": d.ClothesBought,
		"gadgets": d.GadgetsBought,
		"plastic": d.PlasticWaste,
		"recycle": d.RecyclingKg,
		"water":   d.WaterUsage,
	})
}

// EncodeDetails 序列化载荷用于持久化。
func EncodeDetails(d Details) ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// DecodeDetails 按类别标签还原载荷；空载荷返回该类别的零值。
func DecodeDetails(category Category, raw []byte) (Details, error) {
	var target Details
	switch category {
	case Transportation:
		var d TransportationDetails
		if err := unmarshalDetails(raw, &d); err != nil {
			return nil, err
		}
		target = d
	case Electricity:
		var d ElectricityDetails
		if err := unmarshalDetails(raw, &d); err != nil {
			return nil, err
		}
		target = d
	case Food:
		var d FoodDetails
		if err := unmarshalDetails(raw, &d); err != nil {
			return nil, err
		}
		target = d
	case Lifestyle:
		var d LifestyleDetails
		if err := unmarshalDetails(raw, &d); err != nil {
			return nil, err
		}
		target = d
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return target, nil
}

func unmarshalDetails(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode details: %w", err)
	}
	return nil
}

func checkQuantities(values map[string]float64) error {
	for name, v := range values {
		if err := checkQuantity(name, v); err != nil {
			return err
		}
	}
	return nil
}

func checkQuantity(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrValidation, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, name)
	}
	return nil
}
