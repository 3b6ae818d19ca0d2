//go:build tinygo

//go:generate tinygo flash -target=pico

package main

import (
	"machine"
	"time"
)

var (
	adcLadder machine.ADC
	uart      = machine.Serial

	// ADC averaging - running sum and count
	ladderSum   uint32
	ladderCount int

	// Timing
	lastADCRead time.Time

	// Serial buffer for reading lines
	serialBuffer [4]byte
	serialPos    int
)

func main() {
	PIN_LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_LED.Low()

	machine.InitADC()
	PIN_LADDER.Configure(machine.PinConfig{Mode: machine.PinAnalog})

	adcLadder = machine.ADC{Pin: PIN_LADDER}
	adcLadder.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	lastADCRead = time.Now()

	for {
		now := time.Now()

		processSerial()

		if now.Sub(lastADCRead) >= time.Duration(SAMPLE_INTERVAL_MS)*time.Millisecond {
			readLadderADC()
			lastADCRead = now
		}

		if ladderCount >= NUM_SAMPLES {
			outputAveragedValue()
			ladderSum = 0
			ladderCount = 0
		}

		time.Sleep(100 * time.Microsecond)
	}
}

func readLadderADC() {
	value := adcLadder.Get() >> ADC_SHIFT
	ladderSum += uint32(value)
	ladderCount++
}

func outputAveragedValue() {
	n := ladderCount
	if n == 0 {
		n = 1
	}
	avg := uint16(ladderSum / uint32(n))

	// Output format: "unix_micros,reading\n"
	// Example: "1234567890123,2984\n"
	print(time.Now().UnixNano() / 1000)
	print(",")
	print(avg)
	print("\n")
}

// processSerial accepts "1" and "0" lines that switch the LED.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		if data == '\n' || data == '\r' {
			if serialPos == 1 {
				setLED(serialBuffer[0] == '1')
			}
			serialPos = 0
			continue
		}

		if data == ' ' || data == '\t' {
			continue
		}

		if data == '0' || data == '1' {
			if serialPos < len(serialBuffer) {
				serialBuffer[serialPos] = data
				serialPos++
			}
		} else {
			serialPos = 0
		}
	}
}

func setLED(on bool) {
	if on {
		PIN_LED.High()
	} else {
		PIN_LED.Low()
	}
}
