// Package game 是比賽模擬引擎的核心。
//
// 它包含純計算的物理核心、持有比賽生命週期的註冊表、
// 以固定週期推進所有比賽的排程器，以及把引擎與下游
// 消費者解耦的事件匯流排。這個包不依賴傳輸層與資料庫，
// 外部協作只透過事件與註冊表的指令接口發生。
package game
