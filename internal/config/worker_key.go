package config

type WorkerKeyStruct struct {
	PersistAttendanceQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAttendanceQueue: "persist_attendance_queue",
}
