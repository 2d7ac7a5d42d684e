package db

import (
	"context"
	"time"

	"homecore/internal/models"
)

// InsertTemperatureReading appends one temperature reading
func (d *DB) InsertTemperatureReading(ctx context.Context, deviceID string, temperature float64, unit string) error {
	_, err := d.pool.Exec(ctx,
		"INSERT INTO temperature_readings (device_id, temperature, unit) VALUES ($1, $2, $3)",
		deviceID, temperature, unit)
	return err
}

// InsertDeviceState appends one device state row
func (d *DB) InsertDeviceState(ctx context.Context, deviceID, state string, brightness *float64, color *string) error {
	_, err := d.pool.Exec(ctx,
		"INSERT INTO device_states (device_id, state, brightness, color) VALUES ($1, $2, $3, $4)",
		deviceID, state, brightness, color)
	return err
}

// InsertDeviceAvailability appends one availability row
func (d *DB) InsertDeviceAvailability(ctx context.Context, deviceID, availability string) error {
	_, err := d.pool.Exec(ctx,
		"INSERT INTO device_availability (device_id, availability) VALUES ($1, $2)",
		deviceID, availability)
	return err
}

// InsertConnectionStatus appends one broker connection status row
func (d *DB) InsertConnectionStatus(ctx context.Context, status, message string) error {
	_, err := d.pool.Exec(ctx,
		"INSERT INTO mqtt_connection_status (status, message) VALUES ($1, $2)",
		status, message)
	return err
}

// InsertAutomationLog appends one rule trigger log row
func (d *DB) InsertAutomationLog(ctx context.Context, ruleID int64, conditionValue, result string, errorMessage *string) error {
	_, err := d.pool.Exec(ctx,
		"INSERT INTO automation_logs (rule_id, condition_value, action_result, error_message) VALUES ($1, $2, $3, $4)",
		ruleID, conditionValue, result, errorMessage)
	return err
}

// ListEnabledRulesForDevice fetches enabled rules bound to a condition device.
// Queried fresh per evaluation so rule edits take effect on the next message.
func (d *DB) ListEnabledRulesForDevice(ctx context.Context, deviceID string) ([]models.Rule, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT id, name, description, enabled, condition_type, condition_device_id, condition_value,
		        action_type, action_device_id, action_payload
		 FROM automation_rules WHERE enabled = true AND condition_device_id = $1`,
		deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		var r models.Rule
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Enabled, &r.ConditionType,
			&r.ConditionDeviceID, &r.ConditionValue, &r.ActionType, &r.ActionDeviceID, &r.ActionPayload); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// GetAllDevices fetches every registered device
func (d *DB) GetAllDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := d.pool.Query(ctx,
		"SELECT id, device_id, device_name, device_type, location, mqtt_topic, created_at, updated_at FROM devices ORDER BY device_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		var dev models.Device
		if err := rows.Scan(&dev.ID, &dev.DeviceID, &dev.DeviceName, &dev.DeviceType,
			&dev.Location, &dev.MQTTTopic, &dev.CreatedAt, &dev.UpdatedAt); err != nil {
			return nil, err
		}
		devices = append(devices, dev)
	}
	return devices, rows.Err()
}

// GetDeviceByID fetches a device by its stable device id
func (d *DB) GetDeviceByID(ctx context.Context, deviceID string) (*models.Device, error) {
	var dev models.Device
	err := d.pool.QueryRow(ctx,
		"SELECT id, device_id, device_name, device_type, location, mqtt_topic, created_at, updated_at FROM devices WHERE device_id = $1",
		deviceID).
		Scan(&dev.ID, &dev.DeviceID, &dev.DeviceName, &dev.DeviceType, &dev.Location,
			&dev.MQTTTopic, &dev.CreatedAt, &dev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

// PruneFacts deletes fact rows older than the cutoff from the append-only
// tables. Returns the total number of rows removed.
func (d *DB) PruneFacts(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	tables := []struct {
		table, column string
	}{
		{"temperature_readings", "timestamp"},
		{"device_states", "timestamp"},
		{"device_availability", "timestamp"},
		{"mqtt_connection_status", "timestamp"},
		{"automation_logs", "triggered_at"},
	}
	for _, t := range tables {
		tag, err := d.pool.Exec(ctx, "DELETE FROM "+t.table+" WHERE "+t.column+" < $1", cutoff)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}
	return total, nil
}
