package server

import "time"

const (
	ProtocolVersion = 1

	writeWait         = 10 * time.Second
	frameRate         = 15 // behavior frames per second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	// Simulated clock. One coarse tick every second advances time by five
	// minutes; while working the cadence drops to 50ms and the step doubles,
	// compounding to the work-montage speed-up.
	clockInterval        = time.Second
	workingClockInterval = 50 * time.Millisecond
	timeStepMinutes      = 5
	workingStepMinutes   = 10
	minutesPerDay        = 1440

	startMoney       = 500
	startParts       = 100
	startTimeOfDay   = 420 // 07:00
	rentHourMinutes  = 420 // rent bills on the 07:00 crossing
	workEndMinutes   = 840 // shifts end at 14:00
	checkoutDay      = 17
	rentPerHouse     = 20
	lowMoneyMood     = 50
	workPartsReward  = 200
	sleepSkipMinutes = 180

	nightStartMinutes = 1200 // 20:00
	nightEndMinutes   = 240  // 04:00

	petPriceCat  = 20
	petPriceDog  = 30
	petPriceBird = 10

	carRentalCost    = 50
	carBuildParts    = 80
	carWashCost      = 10
	washDuration     = 3 * time.Second
	storyModeTimeout = 8 * time.Second

	captureRewardST = 80
	captureRewardMS = 200

	// Player and NPC kinematics.
	playerMoveSpeed   = 12.0
	playerHalf        = 0.6
	npcMoveSpeed      = 10.0
	npcFacingLerpRate = 5.0
	moveEpsilon       = 0.1

	followThreshold = 3.0
	wanderArrive    = 1.0
	wanderHalf      = 40.0
	detectionRadius = 8.0
	interactRadius  = 7.5

	defaultNPCCount = 25
)

// Command staging reject reasons, surfaced to clients verbatim.
const (
	CommandRejectInvalid    = "invalid_command"
	CommandRejectQueueLimit = "queue_limit"
)

// FrameRate exposes the behavior-loop cadence for diagnostics.
func FrameRate() int { return frameRate }

// HeartbeatInterval exposes the expected client heartbeat cadence.
func HeartbeatInterval() time.Duration { return heartbeatInterval }
