package rfm69

// Register map (RFM69/SX1231 datasheet). Only the registers this driver
// touches are listed.
const (
	regFifo          = 0x00
	regOpMode        = 0x01
	regDataModul     = 0x02
	regBitrateMsb    = 0x03
	regBitrateLsb    = 0x04
	regFdevMsb       = 0x05
	regFdevLsb       = 0x06
	regFrfMsb        = 0x07
	regFrfMid        = 0x08
	regFrfLsb        = 0x09
	regVersion       = 0x10
	regPaLevel       = 0x11
	regOcp           = 0x13
	regRxBw          = 0x19
	regDioMapping1   = 0x25
	regIrqFlags1     = 0x27
	regIrqFlags2     = 0x28
	regRssiThresh    = 0x29
	regPreambleMsb   = 0x2C
	regPreambleLsb   = 0x2D
	regSyncConfig    = 0x2E
	regSyncValue1    = 0x2F
	regPacketConfig1 = 0x37
	regPayloadLength = 0x38
	regFifoThresh    = 0x3C
	regPacketConfig2 = 0x3D
)

// RegOpMode mode bits [4:2].
const (
	modeSleep   = 0x00
	modeStandby = 0x04
	modeFS      = 0x08
	modeTx      = 0x0C
	modeRx      = 0x10

	opModeMask = 0x1C
)

// Flag bits.
const (
	irq1ModeReady  = 0x80
	irq2PacketSent = 0x08
	irq2FifoFull   = 0x80

	paLevelPA0 = 0x80

	packet1VariableLen = 0x80
	packet1CrcOn       = 0x10

	syncOn = 0x80

	writeFlag = 0x80
)

// chipVersion is the silicon revision RegVersion reports.
const chipVersion = 0x24

// fstepMilliHz is the synthesizer step (32 MHz / 2^19) in mHz.
const fstepMilliHz = 61035
