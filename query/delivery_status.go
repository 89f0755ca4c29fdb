package query

import "hermannm.dev/enumnames"

// DeliveryStatus is the derived late/on-time condition: an order is late when its
// actual delivery time exceeds the quoted ETA by more than the request's threshold.
type DeliveryStatus int8

const (
	DeliveryStatusLate DeliveryStatus = iota + 1
	DeliveryStatusOnTime
)

var deliveryStatusMap = enumnames.NewMap(map[DeliveryStatus]string{
	DeliveryStatusLate:   "atrasado",
	DeliveryStatusOnTime: "no_prazo",
})

func (status DeliveryStatus) IsValid() bool {
	return deliveryStatusMap.ContainsEnumValue(status)
}

func (status DeliveryStatus) String() string {
	return deliveryStatusMap.GetNameOrFallback(status, "[INVALID DELIVERY STATUS]")
}

func (status DeliveryStatus) MarshalJSON() ([]byte, error) {
	return deliveryStatusMap.MarshalToNameJSON(status)
}

func (status *DeliveryStatus) UnmarshalJSON(bytes []byte) error {
	return deliveryStatusMap.UnmarshalFromNameJSON(bytes, status)
}

// ParseDeliveryStatus parses the 'delivery_status' request parameter. A blank token
// means the criterion was not supplied.
func ParseDeliveryStatus(token string) (DeliveryStatus, error) {
	switch token {
	case "":
		return 0, nil
	case "atrasado":
		return DeliveryStatusLate, nil
	case "no_prazo":
		return DeliveryStatusOnTime, nil
	default:
		return 0, InvalidFilterValueError{
			Param:  "delivery_status",
			Reason: "must be 'atrasado' or 'no_prazo'",
		}
	}
}
