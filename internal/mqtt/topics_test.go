package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicBuilders(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("smarthome/sensor/temperature/living_room/state", TemperatureStateTopic("smarthome", "living_room"))
	assert.Equal("smarthome/sensor/temperature/living_room/availability", TemperatureAvailabilityTopic("smarthome", "living_room"))
	assert.Equal("smarthome/light/living_room/state", LightStateTopic("smarthome", "living_room"))
	assert.Equal("smarthome/light/living_room/availability", LightAvailabilityTopic("smarthome", "living_room"))
	assert.Equal("smarthome/light/living_room/command", LightCommandTopic("smarthome", "living_room"))
	assert.Equal("smarthome/ac/living_room/state", ACStateTopic("smarthome", "living_room"))
	assert.Equal("smarthome/ac/living_room/availability", ACAvailabilityTopic("smarthome", "living_room"))
	assert.Equal("smarthome/ac/living_room/command", ACCommandTopic("smarthome", "living_room"))
}

func TestTopicBuildersOtherZone(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("home/light/bedroom/command", LightCommandTopic("home", "bedroom"))
	assert.Equal("home/ac/bedroom/state", ACStateTopic("home", "bedroom"))
}
