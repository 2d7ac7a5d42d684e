package mqtt

import "fmt"

// Topic builders for the fixed smart-home topic scheme:
// <base>/sensor/temperature/<zone>/state, <base>/light/<zone>/command, ...

func TemperatureStateTopic(base, zone string) string {
	return fmt.Sprintf("%s/sensor/temperature/%s/state", base, zone)
}

func TemperatureAvailabilityTopic(base, zone string) string {
	return fmt.Sprintf("%s/sensor/temperature/%s/availability", base, zone)
}

func LightStateTopic(base, zone string) string {
	return fmt.Sprintf("%s/light/%s/state", base, zone)
}

func LightAvailabilityTopic(base, zone string) string {
	return fmt.Sprintf("%s/light/%s/availability", base, zone)
}

func LightCommandTopic(base, zone string) string {
	return fmt.Sprintf("%s/light/%s/command", base, zone)
}

func ACStateTopic(base, zone string) string {
	return fmt.Sprintf("%s/ac/%s/state", base, zone)
}

func ACAvailabilityTopic(base, zone string) string {
	return fmt.Sprintf("%s/ac/%s/availability", base, zone)
}

func ACCommandTopic(base, zone string) string {
	return fmt.Sprintf("%s/ac/%s/command", base, zone)
}
